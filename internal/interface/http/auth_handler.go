package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lingomate/backend/internal/application"
	"github.com/lingomate/backend/internal/interface/middleware"
	"github.com/lingomate/backend/pkg/helpers"
	"github.com/lingomate/backend/pkg/response"
)

// AuthHandler owns the signup/login/logout/onboarding endpoints: it maps
// service errors to the wire contract and issues the session cookie.
type AuthHandler struct {
	Svc     *application.Service
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.Service, jwt *helpers.JWTManager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, JWT: jwt, Logger: logger, Cookies: helpers.NewCookieManager(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type onboardRequest struct {
	FullName         string `json:"fullName"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
	Location         string `json:"location"`
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrFieldsRequired):
			response.Error(c, http.StatusBadRequest, "All the fields are required")
		case errors.Is(err, application.ErrPasswordTooShort):
			response.Error(c, http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, application.ErrInvalidEmail):
			response.Error(c, http.StatusBadRequest, "Invalid email format")
		case errors.Is(err, application.ErrEmailTaken):
			response.Error(c, http.StatusBadRequest, "This email already exists")
		default:
			h.Logger.WithError(err).Error("signup failed")
			response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	// The record is already committed at this point; a signing failure still
	// answers 500 (kept from the original contract).
	token, exp, err := h.JWT.GenerateSessionToken(u.ID)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("session token signing failed")
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.Cookies.SetSession(c, token, exp)
	response.User(c, http.StatusCreated, u)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrCredentialsRequired):
			response.Error(c, http.StatusBadRequest, "Valid email & password is required")
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "Invalid email or password")
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	token, exp, err := h.JWT.GenerateSessionToken(u.ID)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("session token signing failed")
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.Cookies.SetSession(c, token, exp)
	response.User(c, http.StatusOK, u)
}

// Logout POST /api/auth/logout. Idempotent; succeeds with or without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.ClearSession(c)
	response.Message(c, http.StatusOK, "Logged out successfully")
}

// Me GET /api/auth/me (authenticated)
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "User not found")
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("fetch profile failed")
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.User(c, http.StatusOK, u)
}

// Onboard POST /api/auth/onboarding (authenticated)
func (h *AuthHandler) Onboard(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req onboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.Svc.Onboard(c.Request.Context(), uid, application.OnboardInput{
		FullName:         req.FullName,
		Bio:              req.Bio,
		NativeLanguage:   req.NativeLanguage,
		LearningLanguage: req.LearningLanguage,
		Location:         req.Location,
	})
	if err != nil {
		var mf *application.MissingFieldsError
		switch {
		case errors.As(err, &mf):
			response.MissingFields(c, http.StatusUnauthorized, "All the fields are required", mf.Fields)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, "User not found")
		default:
			h.Logger.WithError(err).WithField("user_id", uid).Error("onboarding failed")
			response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	response.User(c, http.StatusOK, u)
}
