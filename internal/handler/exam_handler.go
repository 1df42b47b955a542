package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// ExamHandler exposes exam endpoints.
type ExamHandler struct {
	crud[models.ExamDetail, models.ExamDetail, service.CreateExamRequest, service.UpdateExamRequest]
}

// NewExamHandler constructs ExamHandler.
func NewExamHandler(svc *service.ExamService) *ExamHandler {
	return &ExamHandler{crud: newCRUD[models.ExamDetail, models.ExamDetail, service.CreateExamRequest, service.UpdateExamRequest](svc, "Exam")}
}

// List godoc
// @Summary List exams
// @Tags Exams
// @Produce json
// @Param course_id query int false "Filter by course"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param type query string false "Filter by type"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get an exam
// @Tags Exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /exams/{id} [get]
func (h *ExamHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.CreateExamRequest true "Exam payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param payload body service.UpdateExamRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /exams/{id} [put]
// @Router /exams/{id} [patch]
func (h *ExamHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete an exam
// @Tags Exams
// @Param id path int true "Exam ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /exams/{id} [delete]
func (h *ExamHandler) Delete(c *gin.Context) { h.delete(c) }
