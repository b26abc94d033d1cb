package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/notemaster-api/internal/application"
	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
	"github.com/oksasatya/notemaster-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxRoleKey      = "userRole"
	CtxSessionIDKey = "sessionID"
	CtxActorKey     = "actor"
)

// tokenFrom prefers the access cookie and falls back to an Authorization: Bearer header.
func tokenFrom(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessCookie); err == nil && token != "" {
		return token
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth validates the access token and ensures the session it names is still live in Redis.
// It sets userID, userRole and sessionID in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		if rdb != nil {
			sid, err := rdb.HGet(c.Request.Context(), application.SessionKey(claims.UserID), "sid").Result()
			if err != nil || sid != claims.SessionID {
				response.Abort(c, http.StatusUnauthorized, "session not found", nil)
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Next()
	}
}

// ActorLoader resolves the authenticated account. application.AuthService implements it.
type ActorLoader interface {
	Me(ctx context.Context, userID string) (*entity.User, error)
}

// Actor loads the current user record so handlers see fresh role and vertical assignments.
// Must run after Auth.
func Actor(loader ActorLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := loader.Me(c.Request.Context(), c.GetString(CtxUserIDKey))
		switch {
		case err == nil:
			c.Set(CtxActorKey, u)
			c.Next()
		case errors.Is(err, apperror.ErrNotFound):
			response.Abort(c, http.StatusUnauthorized, "account no longer exists", nil)
		case errors.Is(err, apperror.ErrUnauthorized):
			response.Abort(c, http.StatusForbidden, "account is inactive", nil)
		default:
			response.Abort(c, http.StatusInternalServerError, "could not load account", nil)
		}
	}
}

// ActorFrom returns the user set by Actor, or nil.
func ActorFrom(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxActorKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// RequireAdmin stops non-admin actors with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := ActorFrom(c); u == nil || !u.IsAdmin() {
			response.Abort(c, http.StatusForbidden, "admin only", nil)
			return
		}
		c.Next()
	}
}
