package router

import (
	"github.com/lingomate/backend/internal/application"
	"github.com/lingomate/backend/internal/container"
	pginfra "github.com/lingomate/backend/internal/infrastructure/postgres"
	handlers "github.com/lingomate/backend/internal/interface/http"
	"github.com/lingomate/backend/internal/router/modules"
)

// InitModules builds the application service from the container singletons and
// registers every feature module. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	svc := application.NewService(
		repo,
		container.GetDirectory(),
		container.GetLogger(),
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
		container.GetES(),
		cfg.ESUsersIndex,
		container.GetGCS(),
		cfg.GCSBucket,
	)

	authHandler := handlers.NewAuthHandler(svc, container.GetJWT(), container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(svc, container.GetLogger())
	chatHandler := handlers.NewChatHandler(svc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewChatModule(chatHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
