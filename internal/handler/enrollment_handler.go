package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	crud[models.EnrollmentDetail, models.EnrollmentDetail, service.CreateEnrollmentRequest, service.UpdateEnrollmentRequest]
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{crud: newCRUD[models.EnrollmentDetail, models.EnrollmentDetail, service.CreateEnrollmentRequest, service.UpdateEnrollmentRequest](svc, "Enrollment")}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param student_id query int false "Filter by student"
// @Param course_id query int false "Filter by course"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.UpdateEnrollmentRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /enrollments/{id} [put]
// @Router /enrollments/{id} [patch]
func (h *EnrollmentHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete an enrollment
// @Tags Enrollments
// @Param id path int true "Enrollment ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) { h.delete(c) }
