// Package templates renders moderation notifications sent to note authors.
package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
	"time"
)

const (
	NoteSubmitted = "note_submitted"
	NoteApproved  = "note_approved"
	NoteRejected  = "note_rejected"
)

// NoteData holds the fields every notification template may use.
type NoteData struct {
	AppName     string
	AuthorName  string
	Question    string
	CompanyName string
	Status      string
	NoteURL     string
	At          time.Time
}

type set struct {
	subject string
	text    string
	html    string
}

var funcs = map[string]any{
	"upper":      strings.ToUpper,
	"formatTime": func(t time.Time) string { return t.UTC().Format("02 January 2006, 15:04 MST") },
}

const htmlLayout = `<!doctype html><html><body style="font-family:sans-serif">
<h2>{{.AppName}}</h2>
<p>Hi {{.AuthorName}},</p>
<p>%s</p>
<blockquote>{{.Question}}{{if .CompanyName}} <em>({{.CompanyName}})</em>{{end}}</blockquote>
{{if .NoteURL}}<p><a href="{{.NoteURL}}">Open the note</a></p>{{end}}
<p style="color:#888">{{formatTime .At}}</p>
</body></html>`

var sets = map[string]set{
	NoteSubmitted: {
		subject: "Your note was submitted for review",
		text:    "Hi {{.AuthorName}},\n\nYour note \"{{.Question}}\" is waiting for review.\n",
		html:    fmt.Sprintf(htmlLayout, "Your note is waiting for review."),
	},
	NoteApproved: {
		subject: "Your note was approved",
		text:    "Hi {{.AuthorName}},\n\nYour note \"{{.Question}}\" was {{upper .Status}} and is now visible to everyone.\n",
		html:    fmt.Sprintf(htmlLayout, "Good news: your note was approved and is now visible to everyone."),
	},
	NoteRejected: {
		subject: "Your note was rejected",
		text:    "Hi {{.AuthorName}},\n\nYour note \"{{.Question}}\" was {{upper .Status}}. Edit it to submit it again.\n",
		html:    fmt.Sprintf(htmlLayout, "Your note was rejected. Edit it to submit it again."),
	},
}

// Render returns subject, text and html bodies for the named template.
func Render(name string, d NoteData) (string, string, string, error) {
	s, ok := sets[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	tt, err := texttpl.New(name).Funcs(texttpl.FuncMap(funcs)).Parse(s.text)
	if err != nil {
		return "", "", "", err
	}
	ht, err := htmpl.New(name).Funcs(htmpl.FuncMap(funcs)).Parse(s.html)
	if err != nil {
		return "", "", "", err
	}
	var tb, hb bytes.Buffer
	if err := tt.Execute(&tb, d); err != nil {
		return "", "", "", err
	}
	if err := ht.Execute(&hb, d); err != nil {
		return "", "", "", err
	}
	return s.subject, tb.String(), hb.String(), nil
}
