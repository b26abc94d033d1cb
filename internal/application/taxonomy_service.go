package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/internal/domain/access"
	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	repo "github.com/oksasatya/notemaster-api/internal/domain/repository"
)

var ErrUploadsDisabled = errors.New("file uploads are not configured")

type VerticalInput struct {
	Name        string
	LogoURL     string
	Description string
	Status      entity.RecordStatus
}

func (in VerticalInput) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if in.Status != "" && !in.Status.Valid() {
		fields["status"] = "must be ACTIVE or INACTIVE"
	}
	if len(fields) > 0 {
		return &apperror.ValidationError{Fields: fields}
	}
	return nil
}

type VerticalService struct {
	Verticals repo.VerticalRepository
	Uploader  ObjectUploader
	Logger    *logrus.Logger
}

func NewVerticalService(verticals repo.VerticalRepository, uploader ObjectUploader, logger *logrus.Logger) *VerticalService {
	return &VerticalService{Verticals: verticals, Uploader: uploader, Logger: logger}
}

func (s *VerticalService) ListVisible(ctx context.Context, actor *entity.User) ([]*entity.Vertical, error) {
	all, err := s.Verticals.List(ctx)
	if err != nil {
		return nil, err
	}
	return access.VisibleVerticals(actor, all), nil
}

// Get hides verticals the actor is not assigned to behind NotFound.
func (s *VerticalService) Get(ctx context.Context, actor *entity.User, id string) (*entity.Vertical, error) {
	if !access.CanAccessVertical(actor, id) {
		return nil, apperror.NotFound("vertical", id)
	}
	return s.Verticals.GetByID(ctx, id)
}

func (s *VerticalService) Create(ctx context.Context, actor *entity.User, in VerticalInput) (*entity.Vertical, error) {
	if !access.CanManageTaxonomy(actor) {
		return nil, apperror.Unauthorized("create vertical")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	v := &entity.Vertical{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		LogoURL:     in.LogoURL,
		Description: in.Description,
		Status:      in.Status,
	}
	if v.Status == "" {
		v.Status = entity.StatusActive
	}
	if err := s.Verticals.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VerticalService) Update(ctx context.Context, actor *entity.User, id string, in VerticalInput) (*entity.Vertical, error) {
	if !access.CanManageTaxonomy(actor) {
		return nil, apperror.Unauthorized("update vertical")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	v, err := s.Verticals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Name = strings.TrimSpace(in.Name)
	v.LogoURL = in.LogoURL
	v.Description = in.Description
	if in.Status != "" {
		v.Status = in.Status
	}
	if err := s.Verticals.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes the vertical only. Its subtitles and notes stay in place.
func (s *VerticalService) Delete(ctx context.Context, actor *entity.User, id string) error {
	if !access.CanManageTaxonomy(actor) {
		return apperror.Unauthorized("delete vertical")
	}
	if err := s.Verticals.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{"vertical_id": id, "by": actor.ID}).Info("vertical deleted")
	return nil
}

// UploadLogo stores the image and points the vertical's LogoURL at it.
func (s *VerticalService) UploadLogo(ctx context.Context, actor *entity.User, id string, r io.Reader, filename, contentType string) (*entity.Vertical, error) {
	if !access.CanManageTaxonomy(actor) {
		return nil, apperror.Unauthorized("upload vertical logo")
	}
	if s.Uploader == nil {
		return nil, ErrUploadsDisabled
	}
	v, err := s.Verticals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("verticals", id, uuid.NewString()+ext))
	url, err := s.Uploader.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	v.LogoURL = url
	if err := s.Verticals.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

type SubtitleInput struct {
	VerticalID  string
	Name        string
	Description string
	Status      entity.RecordStatus
}

func (in SubtitleInput) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if in.VerticalID == "" {
		fields["verticalId"] = "is required"
	}
	if in.Status != "" && !in.Status.Valid() {
		fields["status"] = "must be ACTIVE or INACTIVE"
	}
	if len(fields) > 0 {
		return &apperror.ValidationError{Fields: fields}
	}
	return nil
}

type SubtitleService struct {
	Subtitles repo.SubtitleRepository
	Verticals repo.VerticalRepository
	Logger    *logrus.Logger
}

func NewSubtitleService(subtitles repo.SubtitleRepository, verticals repo.VerticalRepository, logger *logrus.Logger) *SubtitleService {
	return &SubtitleService{Subtitles: subtitles, Verticals: verticals, Logger: logger}
}

// List returns the subtitles under verticals the actor can access, optionally of one vertical.
func (s *SubtitleService) List(ctx context.Context, actor *entity.User, verticalID string) ([]*entity.Subtitle, error) {
	if verticalID != "" && !access.CanAccessVertical(actor, verticalID) {
		return nil, apperror.NotFound("vertical", verticalID)
	}
	all, err := s.Subtitles.List(ctx, verticalID)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Subtitle, 0, len(all))
	for _, st := range all {
		if access.CanAccessVertical(actor, st.VerticalID) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *SubtitleService) Get(ctx context.Context, actor *entity.User, id string) (*entity.Subtitle, error) {
	st, err := s.Subtitles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessVertical(actor, st.VerticalID) {
		return nil, apperror.NotFound("subtitle", id)
	}
	return st, nil
}

func (s *SubtitleService) requireVertical(ctx context.Context, id string) error {
	_, err := s.Verticals.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.Invalid("verticalId", "refers to an unknown vertical")
	}
	return err
}

func (s *SubtitleService) Create(ctx context.Context, actor *entity.User, in SubtitleInput) (*entity.Subtitle, error) {
	if !access.CanManageTaxonomy(actor) {
		return nil, apperror.Unauthorized("create subtitle")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireVertical(ctx, in.VerticalID); err != nil {
		return nil, err
	}
	st := &entity.Subtitle{
		ID:          uuid.NewString(),
		VerticalID:  in.VerticalID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Status:      in.Status,
	}
	if st.Status == "" {
		st.Status = entity.StatusActive
	}
	if err := s.Subtitles.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SubtitleService) Update(ctx context.Context, actor *entity.User, id string, in SubtitleInput) (*entity.Subtitle, error) {
	if !access.CanManageTaxonomy(actor) {
		return nil, apperror.Unauthorized("update subtitle")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	st, err := s.Subtitles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.VerticalID != st.VerticalID {
		if err := s.requireVertical(ctx, in.VerticalID); err != nil {
			return nil, err
		}
	}
	st.VerticalID = in.VerticalID
	st.Name = strings.TrimSpace(in.Name)
	st.Description = in.Description
	if in.Status != "" {
		st.Status = in.Status
	}
	if err := s.Subtitles.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes the subtitle only. Its notes stay in place.
func (s *SubtitleService) Delete(ctx context.Context, actor *entity.User, id string) error {
	if !access.CanManageTaxonomy(actor) {
		return apperror.Unauthorized("delete subtitle")
	}
	if err := s.Subtitles.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{"subtitle_id": id, "by": actor.ID}).Info("subtitle deleted")
	return nil
}
