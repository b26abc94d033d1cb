package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/notemaster-api/internal/interface/http"
)

// UserModule exposes account management to admins.
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   Guard
}

func NewUserModule(h *handlers.UserHandler, g Guard) *UserModule {
	return &UserModule{Handler: h, Guard: g}
}

func (m *UserModule) Name() string { return "users" }

func (m *UserModule) Register(rg *gin.RouterGroup) {
	admin := m.Guard.Admin(rg)
	{
		admin.GET("/users", m.Handler.List)
		admin.POST("/users", m.Handler.Create)
		admin.GET("/users/search", m.Handler.Search)
		admin.GET("/users/:id", m.Handler.Get)
		admin.PUT("/users/:id", m.Handler.Update)
		admin.DELETE("/users/:id", m.Handler.Delete)
	}
}
