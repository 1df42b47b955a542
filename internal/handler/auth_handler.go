package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/middleware"
	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Register godoc
// @Summary Register a client account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} models.TokenResponse
// @Failure 409 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Register(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Body(c, http.StatusCreated, res)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Body(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Revoke the current access token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.MessageBody
// @Failure 401 {object} errors.Error
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrTokenMissing)
		return
	}
	if err := h.service.Logout(c.Request.Context(), claims, requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Successfully logged out")
}

// Refresh godoc
// @Summary Refresh access token
// @Description Revokes the presented token and issues a new one
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} errors.Error
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	user := currentUser(c)
	if !ok || user == nil {
		response.Error(c, appErrors.ErrTokenMissing)
		return
	}
	res, err := h.service.Refresh(c.Request.Context(), user, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Body(c, http.StatusOK, res)
}

// Me godoc
// @Summary Current user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} errors.Error
// @Router /auth/me [get]
// @Router /users/profile [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Error(c, appErrors.ErrTokenMissing)
		return
	}
	response.Body(c, http.StatusOK, user)
}
