package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lingomate/backend/internal/application"
	"github.com/lingomate/backend/internal/interface/middleware"
	"github.com/lingomate/backend/pkg/response"
	"github.com/lingomate/backend/pkg/validation"
)

// UserHandler serves the profile-adjacent endpoints: partner search and
// custom avatar upload.
type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type searchRequest struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size"`
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid search query", "errors": validation.ToDetails(err)})
		return
	}
	res, err := h.Svc.SearchPartners(c.Request.Context(), req.Q, req.Size)
	if err != nil {
		h.Logger.WithError(err).Error("partner search failed")
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "results": res})
}

// UploadAvatar POST /api/users/avatar (multipart field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "A file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.Logger.WithError(err).Error("open uploaded file failed")
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "User not found")
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("avatar upload failed")
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.User(c, http.StatusOK, u)
}
