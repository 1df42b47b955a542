package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
	"github.com/noah-isme/school-api/pkg/response"
)

// UserResult acknowledges a user write together with the stored user.
type UserResult struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// UserHandler handles user CRUD endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description Managers and admins only
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param name query string false "Filter by name (substring)"
// @Param email query string false "Filter by email (substring)"
// @Param role query string false "Filter by role"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} errors.Error
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, pagination, err := h.service.List(c.Request.Context(), currentUser(c), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Get godoc
// @Summary Get user
// @Description Clients may only view themselves
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 403 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "User")
	if !ok {
		return
	}
	user, err := h.service.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Body(c, http.StatusOK, user)
}

// Create godoc
// @Summary Create user
// @Description Non-admins may only create client users
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateUserRequest true "User payload"
// @Success 201 {object} UserResult
// @Failure 400 {object} errors.Error
// @Failure 403 {object} errors.Error
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.Create(c.Request.Context(), currentUser(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Body(c, http.StatusCreated, UserResult{Message: "User successfully created", User: user})
}

// Update godoc
// @Summary Update user
// @Description Clients may only update themselves; only admins may change roles
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param payload body service.UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResult
// @Failure 400 {object} errors.Error
// @Failure 403 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /users/{id} [put]
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "User")
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.Update(c.Request.Context(), currentUser(c), id, req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Body(c, http.StatusOK, UserResult{Message: "User successfully updated", User: user})
}

// Delete godoc
// @Summary Delete user
// @Description Managers may delete clients only; admin accounts are never deleted
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.MessageBody
// @Failure 403 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "User")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), currentUser(c), id, requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User successfully deleted")
}
