package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/notemaster-api/internal/interface/http"
)

type DashboardModule struct {
	Handler *handlers.DashboardHandler
	Guard   Guard
}

func NewDashboardModule(h *handlers.DashboardHandler, g Guard) *DashboardModule {
	return &DashboardModule{Handler: h, Guard: g}
}

func (m *DashboardModule) Name() string { return "dashboard" }

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	m.Guard.Admin(rg).GET("/dashboard/stats", m.Handler.Stats)
}
