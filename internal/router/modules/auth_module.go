package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lingomate/backend/internal/container"
	handlers "github.com/lingomate/backend/internal/interface/http"
	"github.com/lingomate/backend/internal/interface/middleware"
	"github.com/lingomate/backend/pkg/helpers"
)

// AuthModule wires the auth endpoints.
// Public: POST /api/auth/signup, /api/auth/login, /api/auth/logout
// Protected: GET /api/auth/me, POST /api/auth/onboarding

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	// Logout only clears the cookie, so it stays public and idempotent.
	rg.POST("/auth/logout", m.Handler.Logout)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/auth/me", m.Handler.Me)
		auth.POST("/auth/onboarding", m.Handler.Onboard)
	}
}
