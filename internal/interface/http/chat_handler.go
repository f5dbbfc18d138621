package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lingomate/backend/internal/application"
	"github.com/lingomate/backend/internal/interface/middleware"
	"github.com/lingomate/backend/pkg/response"
)

// ChatHandler mints provider tokens for the frontend chat/video SDK.
type ChatHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewChatHandler(svc *application.Service, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{Svc: svc, Logger: logger}
}

// Token GET /api/chat/token (authenticated)
func (h *ChatHandler) Token(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	token, err := h.Svc.ChatToken(uid)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("chat token mint failed")
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}
