package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
)

// EventPublisher sends note events to the notification queue. helpers.RabbitPublisher implements it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// NoteSearcher is the full-text index. search.NoteIndex implements it.
type NoteSearcher interface {
	Index(ctx context.Context, n *entity.Note) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// ObjectUploader stores a file and returns its public URL. helpers.GCSUploader implements it.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

const (
	EventNoteSubmitted = "note.submitted"
	EventNoteApproved  = "note.approved"
	EventNoteRejected  = "note.rejected"
)

// NoteEvent is the message the notify worker consumes.
type NoteEvent struct {
	Type        string    `json:"type"`
	NoteID      string    `json:"note_id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Question    string    `json:"question"`
	CompanyName string    `json:"company_name"`
	Status      string    `json:"status"`
	At          time.Time `json:"at"`
}
