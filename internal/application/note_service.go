package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/internal/domain/access"
	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	repo "github.com/oksasatya/notemaster-api/internal/domain/repository"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/search"
)

const auxTimeout = 3 * time.Second

// NoteQuery narrows a listing. Q is free text, Company an exact (case-insensitive) company name.
type NoteQuery struct {
	VerticalID string
	SubtitleID string
	Status     entity.NoteStatus
	Q          string
	Company    string
}

type NoteInput struct {
	SubtitleID  string
	Question    string
	Answer      string
	CompanyName string
	Tags        []string
}

// Validate reports missing required fields as a ValidationError.
func (in NoteInput) Validate() error {
	fields := map[string]string{}
	if in.SubtitleID == "" {
		fields["subtitleId"] = "is required"
	}
	if strings.TrimSpace(in.Question) == "" {
		fields["question"] = "is required"
	}
	if strings.TrimSpace(in.Answer) == "" {
		fields["answer"] = "is required"
	}
	if len(fields) > 0 {
		return &apperror.ValidationError{Fields: fields}
	}
	return nil
}

type NoteService struct {
	Notes     repo.NoteRepository
	Subtitles repo.SubtitleRepository
	Users     repo.UserRepository
	Search    NoteSearcher
	Events    EventPublisher
	Logger    *logrus.Logger

	now func() time.Time
}

// NewNoteService wires the service. search and events may be nil.
func NewNoteService(notes repo.NoteRepository, subtitles repo.SubtitleRepository, users repo.UserRepository,
	searcher NoteSearcher, events EventPublisher, logger *logrus.Logger) *NoteService {
	return &NoteService{
		Notes:     notes,
		Subtitles: subtitles,
		Users:     users,
		Search:    searcher,
		Events:    events,
		Logger:    logger,
		now:       time.Now,
	}
}

// visible applies the note rules plus vertical scoping for non-admins.
func visible(actor *entity.User, n *entity.Note) bool {
	if !access.CanViewNote(actor, n) {
		return false
	}
	return actor.IsAdmin() || access.CanAccessVertical(actor, n.VerticalID)
}

func (s *NoteService) List(ctx context.Context, actor *entity.User, q NoteQuery) ([]*entity.Note, error) {
	notes, err := s.Notes.List(ctx, repo.NoteFilter{VerticalID: q.VerticalID, SubtitleID: q.SubtitleID, Status: q.Status})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Note, 0, len(notes))
	for _, n := range notes {
		if !visible(actor, n) {
			continue
		}
		if q.Company != "" && !strings.EqualFold(n.CompanyName, q.Company) {
			continue
		}
		if !search.MatchNote(n, q.Q) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Get returns a note the actor may see. Admins may open any note for moderation.
func (s *NoteService) Get(ctx context.Context, actor *entity.User, id string) (*entity.Note, error) {
	n, err := s.Notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(actor, n) && !access.CanModerate(actor) {
		return nil, apperror.NotFound("note", id)
	}
	return n, nil
}

func (s *NoteService) subtitle(ctx context.Context, id string) (*entity.Subtitle, error) {
	st, err := s.Subtitles.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Invalid("subtitleId", "refers to an unknown subtitle")
	}
	return st, err
}

// Create files a note under the subtitle's vertical. Admin notes are approved at once.
func (s *NoteService) Create(ctx context.Context, actor *entity.User, in NoteInput) (*entity.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	st, err := s.subtitle(ctx, in.SubtitleID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessVertical(actor, st.VerticalID) {
		return nil, apperror.Unauthorized("add a note to vertical " + st.VerticalID)
	}
	n := &entity.Note{
		ID:          uuid.NewString(),
		VerticalID:  st.VerticalID,
		SubtitleID:  st.ID,
		AuthorID:    actor.ID,
		Question:    strings.TrimSpace(in.Question),
		Answer:      strings.TrimSpace(in.Answer),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Status:      access.StatusFor(actor),
		CreatedAt:   s.now().UTC(),
		Tags:        NormalizeTags(in.Tags),
	}
	if err := s.Notes.Create(ctx, n); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, n, EventNoteSubmitted)
	return n, nil
}

// Update lets the author edit a note. The status is recomputed from the author's role.
func (s *NoteService) Update(ctx context.Context, actor *entity.User, id string, in NoteInput) (*entity.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	n, err := s.Notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanMutateNote(actor, n) {
		return nil, apperror.Unauthorized("edit note " + id)
	}
	if in.SubtitleID != n.SubtitleID {
		st, err := s.subtitle(ctx, in.SubtitleID)
		if err != nil {
			return nil, err
		}
		if !access.CanAccessVertical(actor, st.VerticalID) {
			return nil, apperror.Unauthorized("move note to vertical " + st.VerticalID)
		}
		n.SubtitleID = st.ID
		n.VerticalID = st.VerticalID
	}
	n.Question = strings.TrimSpace(in.Question)
	n.Answer = strings.TrimSpace(in.Answer)
	n.CompanyName = strings.TrimSpace(in.CompanyName)
	n.Tags = NormalizeTags(in.Tags)
	n.Status = access.StatusFor(actor)
	if err := s.Notes.Update(ctx, n); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, n, EventNoteSubmitted)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, actor *entity.User, id string) error {
	n, err := s.Notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanMutateNote(actor, n) {
		return apperror.Unauthorized("delete note " + id)
	}
	if err := s.Notes.Delete(ctx, id); err != nil {
		return err
	}
	if s.Search != nil {
		c, cancel := context.WithTimeout(ctx, auxTimeout)
		defer cancel()
		if err := s.Search.Delete(c, id); err != nil {
			s.Logger.WithError(err).WithField("note_id", id).Warn("search delete failed")
		}
	}
	return nil
}

func (s *NoteService) Approve(ctx context.Context, actor *entity.User, id string) (*entity.Note, error) {
	return s.moderate(ctx, actor, id, entity.NoteApproved, EventNoteApproved)
}

func (s *NoteService) Reject(ctx context.Context, actor *entity.User, id string) (*entity.Note, error) {
	return s.moderate(ctx, actor, id, entity.NoteRejected, EventNoteRejected)
}

func (s *NoteService) moderate(ctx context.Context, actor *entity.User, id string, to entity.NoteStatus, event string) (*entity.Note, error) {
	if !access.CanModerate(actor) {
		return nil, apperror.Unauthorized("moderate notes")
	}
	cur, err := s.Notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanTransition(cur.Status, to) {
		return nil, apperror.Conflict("note " + id + " is " + string(cur.Status) + ", only PENDING notes can be moderated")
	}
	n, err := s.Notes.Transition(ctx, id, cur.Status, to)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"note_id": id, "status": to, "by": actor.ID}).Info("note moderated")
	s.afterWrite(ctx, n, event)
	return n, nil
}

// ModerationQueue lists every note with the given status; an empty status lists all of them.
func (s *NoteService) ModerationQueue(ctx context.Context, actor *entity.User, status entity.NoteStatus) ([]*entity.Note, error) {
	if !access.CanModerate(actor) {
		return nil, apperror.Unauthorized("view the moderation queue")
	}
	return s.Notes.List(ctx, repo.NoteFilter{Status: status})
}

// Sources returns the sorted distinct company names of the notes the actor can see under a subtitle.
func (s *NoteService) Sources(ctx context.Context, actor *entity.User, subtitleID string) ([]string, error) {
	notes, err := s.List(ctx, actor, NoteQuery{SubtitleID: subtitleID})
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, n := range notes {
		if n.CompanyName == "" {
			continue
		}
		if _, ok := seen[n.CompanyName]; ok {
			continue
		}
		seen[n.CompanyName] = struct{}{}
		out = append(out, n.CompanyName)
	}
	sort.Strings(out)
	return out, nil
}

// FullTextSearch asks the search index first and falls back to in-process matching
// when the index is missing or failing.
func (s *NoteService) FullTextSearch(ctx context.Context, actor *entity.User, q string, size int) ([]*entity.Note, error) {
	if s.Search != nil && strings.TrimSpace(q) != "" {
		ids, err := s.Search.Search(ctx, q, size)
		if err == nil {
			out := make([]*entity.Note, 0, len(ids))
			for _, id := range ids {
				n, gErr := s.Notes.GetByID(ctx, id)
				if errors.Is(gErr, apperror.ErrNotFound) {
					continue
				}
				if gErr != nil {
					return nil, gErr
				}
				if visible(actor, n) {
					out = append(out, n)
				}
			}
			return out, nil
		}
		s.Logger.WithError(err).Warn("search index unavailable, falling back to local matching")
	}
	out, err := s.List(ctx, actor, NoteQuery{Q: q})
	if err != nil {
		return nil, err
	}
	if size > 0 && len(out) > size {
		out = out[:size]
	}
	return out, nil
}

// afterWrite refreshes the search index and publishes a notification.
// Failures are logged; the write itself already succeeded.
func (s *NoteService) afterWrite(ctx context.Context, n *entity.Note, event string) {
	if s.Search != nil {
		c, cancel := context.WithTimeout(ctx, auxTimeout)
		if err := s.Search.Index(c, n); err != nil {
			s.Logger.WithError(err).WithField("note_id", n.ID).Warn("search index failed")
		}
		cancel()
	}
	if s.Events == nil {
		return
	}
	if event == EventNoteSubmitted && n.Status != entity.NotePending {
		return
	}
	ev := NoteEvent{
		Type:        event,
		NoteID:      n.ID,
		AuthorID:    n.AuthorID,
		Question:    n.Question,
		CompanyName: n.CompanyName,
		Status:      string(n.Status),
		At:          s.now().UTC(),
	}
	if author, err := s.Users.GetByID(ctx, n.AuthorID); err == nil {
		ev.AuthorName = author.Name
		ev.AuthorEmail = author.Email
	} else {
		s.Logger.WithError(err).WithField("author_id", n.AuthorID).Warn("author lookup failed")
	}
	c, cancel := context.WithTimeout(ctx, auxTimeout)
	defer cancel()
	if err := s.Events.PublishJSON(c, ev); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"note_id": n.ID, "event": event}).Warn("publish note event failed")
	}
}

// NormalizeTags trims tags and drops empty and duplicate (case-insensitive) entries, keeping the first spelling.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
