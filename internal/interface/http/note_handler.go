package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/internal/application"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/pkg/response"
)

type NoteHandler struct {
	Svc    *application.NoteService
	Logger *logrus.Logger
}

func NewNoteHandler(svc *application.NoteService, logger *logrus.Logger) *NoteHandler {
	return &NoteHandler{Svc: svc, Logger: logger}
}

type noteRequest struct {
	SubtitleID  string   `json:"subtitleId" binding:"required"`
	Question    string   `json:"question" binding:"required"`
	Answer      string   `json:"answer" binding:"required"`
	CompanyName string   `json:"companyName"`
	Tags        []string `json:"tags" binding:"omitempty,max=20,dive,max=40"`
}

func (r noteRequest) input() application.NoteInput {
	return application.NoteInput{SubtitleID: r.SubtitleID, Question: r.Question, Answer: r.Answer, CompanyName: r.CompanyName, Tags: r.Tags}
}

// statusParam parses ?status=. "ALL" and "" mean no filter.
func statusParam(c *gin.Context) (entity.NoteStatus, bool) {
	raw := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	if raw == "" || raw == "ALL" {
		return "", true
	}
	st := entity.NoteStatus(raw)
	if !st.Valid() {
		response.Error[any](c, http.StatusBadRequest, "invalid status", map[string]string{"status": "must be PENDING, APPROVED, REJECTED or ALL"})
		return "", false
	}
	return st, true
}

func (h *NoteHandler) List(c *gin.Context) {
	status, ok := statusParam(c)
	if !ok {
		return
	}
	notes, err := h.Svc.List(c.Request.Context(), actor(c), application.NoteQuery{
		VerticalID: c.Query("vertical_id"),
		SubtitleID: c.Query("subtitle_id"),
		Status:     status,
		Q:          c.Query("q"),
		Company:    c.Query("company"),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, notes, "notes", map[string]any{"count": len(notes)})
}

func (h *NoteHandler) Get(c *gin.Context) {
	n, err := h.Svc.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, n, "note", nil)
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	n, err := h.Svc.Create(c.Request.Context(), actor(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, n, "note created", nil)
}

func (h *NoteHandler) Update(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	n, err := h.Svc.Update(c.Request.Context(), actor(c), c.Param("id"), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, n, "note updated", nil)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": c.Param("id")}, "note deleted", nil)
}

func (h *NoteHandler) Approve(c *gin.Context) {
	n, err := h.Svc.Approve(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, n, "note approved", nil)
}

func (h *NoteHandler) Reject(c *gin.Context) {
	n, err := h.Svc.Reject(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, n, "note rejected", nil)
}

func (h *NoteHandler) Approvals(c *gin.Context) {
	status, ok := statusParam(c)
	if !ok {
		return
	}
	notes, err := h.Svc.ModerationQueue(c.Request.Context(), actor(c), status)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, notes, "moderation queue", map[string]any{"count": len(notes)})
}

func (h *NoteHandler) Sources(c *gin.Context) {
	sources, err := h.Svc.Sources(c.Request.Context(), actor(c), c.Query("subtitle_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sources, "sources", nil)
}

func (h *NoteHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	notes, err := h.Svc.FullTextSearch(c.Request.Context(), actor(c), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, notes, "search results", map[string]any{"count": len(notes)})
}

type DashboardHandler struct {
	Svc    *application.DashboardService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), actor(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, st, "dashboard stats", nil)
}
