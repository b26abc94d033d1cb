package entity

import "time"

// NoteStatus is the moderation state of a note.
type NoteStatus string

const (
	NotePending  NoteStatus = "PENDING"
	NoteApproved NoteStatus = "APPROVED"
	NoteRejected NoteStatus = "REJECTED"
)

func (s NoteStatus) Valid() bool {
	return s == NotePending || s == NoteApproved || s == NoteRejected
}

// Note is a question/answer knowledge entry.
// VerticalID is denormalised from the owning subtitle.
type Note struct {
	ID          string     `json:"id"`
	VerticalID  string     `json:"verticalId"`
	SubtitleID  string     `json:"subtitleId"`
	AuthorID    string     `json:"authorId"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer"`
	CompanyName string     `json:"companyName"`
	Status      NoteStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	Tags        []string   `json:"tags"`
}

func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	c.Tags = append([]string(nil), n.Tags...)
	return &c
}
