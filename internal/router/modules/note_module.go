package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/notemaster-api/internal/interface/http"
)

type NoteModule struct {
	Handler *handlers.NoteHandler
	Guard   Guard
}

func NewNoteModule(h *handlers.NoteHandler, g Guard) *NoteModule {
	return &NoteModule{Handler: h, Guard: g}
}

func (m *NoteModule) Name() string { return "notes" }

func (m *NoteModule) Register(rg *gin.RouterGroup) {
	auth := m.Guard.Protected(rg)
	{
		auth.GET("/notes", m.Handler.List)
		auth.POST("/notes", m.Handler.Create)
		auth.GET("/notes/sources", m.Handler.Sources)
		auth.GET("/notes/search", m.Handler.Search)
		auth.GET("/notes/:id", m.Handler.Get)
		auth.PUT("/notes/:id", m.Handler.Update)
		auth.DELETE("/notes/:id", m.Handler.Delete)
		auth.POST("/notes/:id/approve", m.Handler.Approve)
		auth.POST("/notes/:id/reject", m.Handler.Reject)
	}

	admin := m.Guard.Admin(rg)
	admin.GET("/approvals", m.Handler.Approvals)
}
