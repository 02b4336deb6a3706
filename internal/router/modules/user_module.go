package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/profilio/user-hub/internal/interface/http"
	"github.com/profilio/user-hub/internal/interface/middleware"
)

// UserModule wires the user and avatar routes.
// POST   /api/users
// GET    /api/users/:userId
// GET    /api/users/search
// GET    /api/users/:userId/avatar
// PUT    /api/users/:userId/avatar
// DELETE /api/users/:userId/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Budgets are per client IP per minute; uploads are additionally
	// keyed by path.
	createLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIP(), nil)
	uploadLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	readLimiter := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil)

	users := rg.Group("/users")
	{
		users.POST("", createLimiter, m.Handler.Create)
		// /users/search must be declared before /users/:userId would
		// shadow it; gin resolves the static route first.
		users.GET("/search", readLimiter, m.Handler.Search)
		users.GET("/:userId", readLimiter, m.Handler.GetUser)
		users.GET("/:userId/avatar", readLimiter, m.Handler.GetAvatar)
		users.PUT("/:userId/avatar", uploadLimiter, m.Handler.PutAvatar)
		users.DELETE("/:userId/avatar", uploadLimiter, m.Handler.DeleteAvatar)
	}
}
