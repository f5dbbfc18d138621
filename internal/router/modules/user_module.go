package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lingomate/backend/internal/container"
	handlers "github.com/lingomate/backend/internal/interface/http"
	"github.com/lingomate/backend/internal/interface/middleware"
	"github.com/lingomate/backend/pkg/helpers"
)

// UserModule wires the protected profile endpoints:
// GET /api/users/search, POST /api/users/avatar

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/users/search", m.Handler.Search)
		auth.POST("/users/avatar", m.Handler.UploadAvatar)
	}
}
