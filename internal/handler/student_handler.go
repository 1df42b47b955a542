package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	crud[models.Student, models.Student, service.CreateStudentRequest, service.UpdateStudentRequest]
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{crud: newCRUD[models.Student, models.Student, service.CreateStudentRequest, service.UpdateStudentRequest](svc, "Student")}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param first_name query string false "Filter by first name (substring)"
// @Param last_name query string false "Filter by last name (substring)"
// @Param email query string false "Filter by email (substring)"
// @Param enrollment_date query string false "Filter by enrollment date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get a student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /students/{id} [put]
// @Router /students/{id} [patch]
func (h *StudentHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) { h.delete(c) }
