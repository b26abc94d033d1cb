package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/internal/application"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/pkg/response"
)

const maxLogoBytes = 2 << 20

type VerticalHandler struct {
	Svc    *application.VerticalService
	Logger *logrus.Logger
}

func NewVerticalHandler(svc *application.VerticalService, logger *logrus.Logger) *VerticalHandler {
	return &VerticalHandler{Svc: svc, Logger: logger}
}

type verticalRequest struct {
	Name        string              `json:"name" binding:"required"`
	LogoURL     string              `json:"logoUrl" binding:"omitempty,url"`
	Description string              `json:"description"`
	Status      entity.RecordStatus `json:"status" binding:"omitempty,recordstatus"`
}

func (r verticalRequest) input() application.VerticalInput {
	return application.VerticalInput{Name: r.Name, LogoURL: r.LogoURL, Description: r.Description, Status: r.Status}
}

func (h *VerticalHandler) List(c *gin.Context) {
	vs, err := h.Svc.ListVisible(c.Request.Context(), actor(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, vs, "verticals", map[string]any{"count": len(vs)})
}

func (h *VerticalHandler) Get(c *gin.Context) {
	v, err := h.Svc.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, v, "vertical", nil)
}

func (h *VerticalHandler) Create(c *gin.Context) {
	var req verticalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	v, err := h.Svc.Create(c.Request.Context(), actor(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, v, "vertical created", nil)
}

func (h *VerticalHandler) Update(c *gin.Context) {
	var req verticalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	v, err := h.Svc.Update(c.Request.Context(), actor(c), c.Param("id"), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, v, "vertical updated", nil)
}

func (h *VerticalHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": c.Param("id")}, "vertical deleted", nil)
}

// UploadLogo accepts a multipart "file" field.
func (h *VerticalHandler) UploadLogo(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file", map[string]string{"file": "is required"})
		return
	}
	if fh.Size > maxLogoBytes {
		response.Error[any](c, http.StatusBadRequest, "file too large", map[string]string{"file": "must be at most 2MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	v, err := h.Svc.UploadLogo(c.Request.Context(), actor(c), c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, v, "logo uploaded", nil)
}

type SubtitleHandler struct {
	Svc    *application.SubtitleService
	Logger *logrus.Logger
}

func NewSubtitleHandler(svc *application.SubtitleService, logger *logrus.Logger) *SubtitleHandler {
	return &SubtitleHandler{Svc: svc, Logger: logger}
}

type subtitleRequest struct {
	VerticalID  string              `json:"verticalId" binding:"required"`
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Status      entity.RecordStatus `json:"status" binding:"omitempty,recordstatus"`
}

func (r subtitleRequest) input() application.SubtitleInput {
	return application.SubtitleInput{VerticalID: r.VerticalID, Name: r.Name, Description: r.Description, Status: r.Status}
}

func (h *SubtitleHandler) List(c *gin.Context) {
	subs, err := h.Svc.List(c.Request.Context(), actor(c), c.Query("vertical_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, subs, "subtitles", map[string]any{"count": len(subs)})
}

func (h *SubtitleHandler) Get(c *gin.Context) {
	st, err := h.Svc.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, st, "subtitle", nil)
}

func (h *SubtitleHandler) Create(c *gin.Context) {
	var req subtitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	st, err := h.Svc.Create(c.Request.Context(), actor(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, st, "subtitle created", nil)
}

func (h *SubtitleHandler) Update(c *gin.Context) {
	var req subtitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	st, err := h.Svc.Update(c.Request.Context(), actor(c), c.Param("id"), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, st, "subtitle updated", nil)
}

func (h *SubtitleHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": c.Param("id")}, "subtitle deleted", nil)
}
