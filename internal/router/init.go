package router

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	userapp "github.com/profilio/user-hub/internal/application"
	handlers "github.com/profilio/user-hub/internal/interface/http"
	"github.com/profilio/user-hub/internal/router/modules"
)

// Deps carries the components constructed once in main. Modules receive
// them by parameter; there is no shared registry of singletons.
type Deps struct {
	Service      *userapp.Service
	Pool         *pgxpool.Pool
	Redis        *redis.Client
	Logger       *logrus.Logger
	DebugMetrics bool
}

// InitModules wires up all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry, deps Deps) {
	handler := handlers.NewUserHandler(deps.Service, deps.Logger)

	r.Add(modules.NewUserModule(handler, deps.Redis))
	r.Add(modules.NewHealthModule(deps.Pool))
	if deps.DebugMetrics {
		r.Add(modules.NewDebugModule(deps.Redis))
	}
}
