package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// TeacherHandler exposes teacher endpoints.
type TeacherHandler struct {
	crud[models.Teacher, models.Teacher, service.CreateTeacherRequest, service.UpdateTeacherRequest]
}

// NewTeacherHandler constructs TeacherHandler.
func NewTeacherHandler(svc *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{crud: newCRUD[models.Teacher, models.Teacher, service.CreateTeacherRequest, service.UpdateTeacherRequest](svc, "Teacher")}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param first_name query string false "Filter by first name (substring)"
// @Param last_name query string false "Filter by last name (substring)"
// @Param email query string false "Filter by email (substring)"
// @Param department query string false "Filter by department (substring)"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get a teacher
// @Tags Teachers
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create a teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body service.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update a teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path int true "Teacher ID"
// @Param payload body service.UpdateTeacherRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /teachers/{id} [put]
// @Router /teachers/{id} [patch]
func (h *TeacherHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete a teacher
// @Tags Teachers
// @Param id path int true "Teacher ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) { h.delete(c) }
