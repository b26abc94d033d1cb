package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
)

type userBody struct {
	Name              string              `json:"name"`
	Email             string              `json:"email"`
	Password          string              `json:"password,omitempty"`
	Role              entity.Role         `json:"role"`
	Avatar            string              `json:"avatar,omitempty"`
	AssignedVerticals []string            `json:"assignedVerticals"`
	Status            entity.RecordStatus `json:"status,omitempty"`
}

func newUserBody(u *entity.User, password string) userBody {
	return userBody{
		Name:              u.Name,
		Email:             u.Email,
		Password:          password,
		Role:              u.Role,
		Avatar:            u.Avatar,
		AssignedVerticals: u.AssignedVerticals,
		Status:            u.Status,
	}
}

func (c *Client) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return call[[]*entity.User](ctx, c, http.MethodGet, "/users", nil, nil)
}

func (c *Client) CreateUser(ctx context.Context, u *entity.User, password string) (*entity.User, error) {
	return call[*entity.User](ctx, c, http.MethodPost, "/users", nil, newUserBody(u, password))
}

// UpdateUser keeps the stored password when password is empty.
func (c *Client) UpdateUser(ctx context.Context, u *entity.User, password string) (*entity.User, error) {
	return call[*entity.User](ctx, c, http.MethodPut, idPath("/users", u.ID), nil, newUserBody(u, password))
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, idPath("/users", id), nil, nil)
	return err
}

func (c *Client) ListVerticals(ctx context.Context) ([]*entity.Vertical, error) {
	return call[[]*entity.Vertical](ctx, c, http.MethodGet, "/verticals", nil, nil)
}

func (c *Client) CreateVertical(ctx context.Context, v *entity.Vertical) (*entity.Vertical, error) {
	return call[*entity.Vertical](ctx, c, http.MethodPost, "/verticals", nil, v)
}

func (c *Client) UpdateVertical(ctx context.Context, v *entity.Vertical) (*entity.Vertical, error) {
	return call[*entity.Vertical](ctx, c, http.MethodPut, idPath("/verticals", v.ID), nil, v)
}

func (c *Client) DeleteVertical(ctx context.Context, id string) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, idPath("/verticals", id), nil, nil)
	return err
}

func (c *Client) ListSubtitles(ctx context.Context, verticalID string) ([]*entity.Subtitle, error) {
	var q url.Values
	if verticalID != "" {
		q = url.Values{"vertical_id": {verticalID}}
	}
	return call[[]*entity.Subtitle](ctx, c, http.MethodGet, "/subtitles", q, nil)
}

func (c *Client) CreateSubtitle(ctx context.Context, s *entity.Subtitle) (*entity.Subtitle, error) {
	return call[*entity.Subtitle](ctx, c, http.MethodPost, "/subtitles", nil, s)
}

func (c *Client) UpdateSubtitle(ctx context.Context, s *entity.Subtitle) (*entity.Subtitle, error) {
	return call[*entity.Subtitle](ctx, c, http.MethodPut, idPath("/subtitles", s.ID), nil, s)
}

func (c *Client) DeleteSubtitle(ctx context.Context, id string) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, idPath("/subtitles", id), nil, nil)
	return err
}

// ListNotes sends the filters the API understands and applies AuthorID locally.
func (c *Client) ListNotes(ctx context.Context, f repository.NoteFilter) ([]*entity.Note, error) {
	q := url.Values{}
	if f.VerticalID != "" {
		q.Set("vertical_id", f.VerticalID)
	}
	if f.SubtitleID != "" {
		q.Set("subtitle_id", f.SubtitleID)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	notes, err := call[[]*entity.Note](ctx, c, http.MethodGet, "/notes", q, nil)
	if err != nil {
		return nil, err
	}
	out := notes[:0]
	for _, n := range notes {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (c *Client) CreateNote(ctx context.Context, n *entity.Note) (*entity.Note, error) {
	return call[*entity.Note](ctx, c, http.MethodPost, "/notes", nil, n)
}

func (c *Client) UpdateNote(ctx context.Context, n *entity.Note) (*entity.Note, error) {
	return call[*entity.Note](ctx, c, http.MethodPut, idPath("/notes", n.ID), nil, n)
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, idPath("/notes", id), nil, nil)
	return err
}

func (c *Client) ApproveNote(ctx context.Context, id string) (*entity.Note, error) {
	return call[*entity.Note](ctx, c, http.MethodPost, idPath("/notes", id, "approve"), nil, nil)
}

func (c *Client) RejectNote(ctx context.Context, id string) (*entity.Note, error) {
	return call[*entity.Note](ctx, c, http.MethodPost, idPath("/notes", id, "reject"), nil, nil)
}
