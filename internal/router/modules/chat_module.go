package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lingomate/backend/internal/container"
	handlers "github.com/lingomate/backend/internal/interface/http"
	"github.com/lingomate/backend/internal/interface/middleware"
	"github.com/lingomate/backend/pkg/helpers"
)

// ChatModule wires GET /api/chat/token for the frontend chat/video SDK.

type ChatModule struct {
	Handler *handlers.ChatHandler
	JWT     *helpers.JWTManager
}

func NewChatModule(h *handlers.ChatHandler, jwt *helpers.JWTManager) *ChatModule {
	return &ChatModule{Handler: h, JWT: jwt}
}

func (m *ChatModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/chat/token", m.Handler.Token)
	}
}
