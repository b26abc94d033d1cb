package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/notemaster-api/internal/container"
	handlers "github.com/oksasatya/notemaster-api/internal/interface/http"
	"github.com/oksasatya/notemaster-api/internal/interface/middleware"
)

// TaxonomyModule serves verticals and subtitles. Role checks for writes live in the services.
type TaxonomyModule struct {
	Verticals *handlers.VerticalHandler
	Subtitles *handlers.SubtitleHandler
	Guard     Guard
}

func NewTaxonomyModule(v *handlers.VerticalHandler, s *handlers.SubtitleHandler, g Guard) *TaxonomyModule {
	return &TaxonomyModule{Verticals: v, Subtitles: s, Guard: g}
}

func (m *TaxonomyModule) Name() string { return "taxonomy" }

func (m *TaxonomyModule) Register(rg *gin.RouterGroup) {
	auth := m.Guard.Protected(rg)
	{
		auth.GET("/verticals", m.Verticals.List)
		auth.POST("/verticals", m.Verticals.Create)
		auth.GET("/verticals/:id", m.Verticals.Get)
		auth.PUT("/verticals/:id", m.Verticals.Update)
		auth.DELETE("/verticals/:id", m.Verticals.Delete)
		uploadLimiter := middleware.RateLimit(container.GetRedis(), middleware.Limit{Scope: "upload", Max: 10, Window: time.Minute, Key: middleware.KeyByUserID()})
		auth.POST("/verticals/:id/logo", uploadLimiter, m.Verticals.UploadLogo)

		auth.GET("/subtitles", m.Subtitles.List)
		auth.POST("/subtitles", m.Subtitles.Create)
		auth.GET("/subtitles/:id", m.Subtitles.Get)
		auth.PUT("/subtitles/:id", m.Subtitles.Update)
		auth.DELETE("/subtitles/:id", m.Subtitles.Delete)
	}
}
