package modules

import (
	"expvar"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/notemaster-api/internal/container"
	"github.com/oksasatya/notemaster-api/internal/interface/middleware"
)

var (
	publishOnce sync.Once
	startedAt   = time.Now()
)

// DebugModule serves expvar at /api/debug/vars with process uptime and store mode.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Name() string { return "debug" }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar.Publish panics on duplicates, and tests build many engines
	publishOnce.Do(func() {
		expvar.Publish("uptime_seconds", expvar.Func(func() any { return int64(time.Since(startedAt).Seconds()) }))
		expvar.Publish("store_driver", expvar.Func(func() any {
			if container.GetPGPool() != nil {
				return "postgres"
			}
			return "memory"
		}))
	})
	rl := middleware.RateLimit(container.GetRedis(), middleware.Limit{Scope: "debug", Max: 120, Window: time.Minute, Key: middleware.KeyByIP(), Allow: middleware.AllowPrivateIP()})
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
