package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/notemaster-api/internal/container"
	handlers "github.com/oksasatya/notemaster-api/internal/interface/http"
	"github.com/oksasatya/notemaster-api/internal/interface/middleware"
)

// AuthModule wires login and session routes.
// Public: POST /api/login, POST /api/refresh
// Protected: POST /api/logout, GET /api/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   Guard
}

func NewAuthModule(h *handlers.AuthHandler, g Guard) *AuthModule {
	return &AuthModule{Handler: h, Guard: g}
}

func (m *AuthModule) Name() string { return "auth" }

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), middleware.Limit{Scope: "auth", Max: 10, Window: time.Minute, Key: middleware.KeyByIPAndPath()})
	refreshLimiter := middleware.RateLimit(container.GetRedis(), middleware.Limit{Scope: "auth", Max: 60, Window: time.Minute, Key: middleware.KeyByIPAndPath()})

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := m.Guard.Protected(rg)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
