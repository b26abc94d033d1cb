// Package notify turns note events from the queue into e-mails for their authors.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/internal/application"
	"github.com/oksasatya/notemaster-api/pkg/mailer"
	"github.com/oksasatya/notemaster-api/pkg/mailer/templates"
)

// ErrDrop marks a message that will never succeed and must not be requeued.
var ErrDrop = errors.New("drop message")

var templateFor = map[string]string{
	application.EventNoteSubmitted: templates.NoteSubmitted,
	application.EventNoteApproved:  templates.NoteApproved,
	application.EventNoteRejected:  templates.NoteRejected,
}

type Worker struct {
	Sender      mailer.Sender
	AppName     string
	BaseURL     string
	SendTimeout time.Duration
	Logger      *logrus.Logger

	// RetryDelay is waited before a failed send is requeued.
	RetryDelay    time.Duration
	// MaxDeliveries stops requeueing once the broker's x-delivery-count says the
	// message has been tried this many times. Zero means no limit.
	MaxDeliveries int64
}

// Process renders and sends one event body.
func (w *Worker) Process(ctx context.Context, body []byte) error {
	var ev application.NoteEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decoding event: %v: %w", err, ErrDrop)
	}
	name, ok := templateFor[ev.Type]
	if !ok {
		return fmt.Errorf("unknown event type %q: %w", ev.Type, ErrDrop)
	}
	if strings.TrimSpace(ev.AuthorEmail) == "" {
		return fmt.Errorf("event %s for note %s has no recipient: %w", ev.Type, ev.NoteID, ErrDrop)
	}

	subject, text, html, err := templates.Render(name, templates.NoteData{
		AppName:     w.AppName,
		AuthorName:  ev.AuthorName,
		Question:    ev.Question,
		CompanyName: ev.CompanyName,
		Status:      ev.Status,
		NoteURL:     w.noteURL(ev.NoteID),
		At:          ev.At,
	})
	if err != nil {
		return fmt.Errorf("rendering %s: %v: %w", name, err, ErrDrop)
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(sendCtx, mailer.EmailJob{To: ev.AuthorEmail, Subject: subject, Text: text, HTML: html}); err != nil {
		return fmt.Errorf("sending %s to %s: %w", name, ev.AuthorEmail, err)
	}
	return nil
}

func (w *Worker) noteURL(id string) string {
	if w.BaseURL == "" || id == "" {
		return ""
	}
	return strings.TrimRight(w.BaseURL, "/") + "/notes/" + id
}

// Run consumes deliveries until ctx is done or the channel closes.
// Dropped messages are nacked without requeue, send failures are requeued.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	err := w.Process(ctx, d.Body)
	attempts := deliveryCount(d) + 1
	log := w.Logger.WithError(err).WithFields(logrus.Fields{"delivery_tag": d.DeliveryTag, "attempt": attempts})
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrDrop):
		log.Warn("dropping message")
		_ = d.Nack(false, false)
	case w.MaxDeliveries > 0 && attempts >= w.MaxDeliveries:
		log.Error("send failed, giving up")
		_ = d.Nack(false, false)
	default:
		log.Error("send failed, requeueing")
		w.backoff(ctx)
		_ = d.Nack(false, true)
	}
}

func (w *Worker) backoff(ctx context.Context) {
	if w.RetryDelay <= 0 {
		return
	}
	t := time.NewTimer(w.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// deliveryCount reads the quorum-queue redelivery header; classic queues only
// expose the Redelivered flag, which counts as one previous attempt.
func deliveryCount(d amqp.Delivery) int64 {
	switch v := d.Headers["x-delivery-count"].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	}
	if d.Redelivered {
		return 1
	}
	return 0
}
