package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/notemaster-api/internal/container"
	"github.com/oksasatya/notemaster-api/internal/interface/middleware"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

// Guard carries what every protected module needs to authenticate a request.
type Guard struct {
	JWT    *helpers.JWTManager
	Loader middleware.ActorLoader
}

// Protected returns a group behind token, session and account checks,
// with a softer per-IP limit and a per-user limit.
func (g Guard) Protected(rg *gin.RouterGroup) *gin.RouterGroup {
	auth := rg.Group("/")
	auth.Use(
		middleware.Auth(container.GetRedis(), g.JWT),
		middleware.Actor(g.Loader),
		middleware.RateLimit(container.GetRedis(), middleware.Limit{Scope: "api", Max: 300, Window: time.Minute, Key: middleware.KeyByIP()}),
		middleware.RateLimit(container.GetRedis(), middleware.Limit{Scope: "api", Max: 120, Window: time.Minute, Key: middleware.KeyByUserID()}),
	)
	return auth
}

// Admin is Protected plus RequireAdmin.
func (g Guard) Admin(rg *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Protected(rg)
	admin.Use(middleware.RequireAdmin())
	return admin
}
