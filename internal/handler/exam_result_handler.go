package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// ExamResultHandler exposes exam result endpoints.
type ExamResultHandler struct {
	crud[models.ExamResultDetail, models.ExamResultDetail, service.CreateExamResultRequest, service.UpdateExamResultRequest]
}

// NewExamResultHandler constructs ExamResultHandler.
func NewExamResultHandler(svc *service.ExamResultService) *ExamResultHandler {
	return &ExamResultHandler{crud: newCRUD[models.ExamResultDetail, models.ExamResultDetail, service.CreateExamResultRequest, service.UpdateExamResultRequest](svc, "Exam result")}
}

// List godoc
// @Summary List exam results
// @Tags ExamResults
// @Produce json
// @Param exam_id query int false "Filter by exam"
// @Param student_id query int false "Filter by student"
// @Param grade query string false "Filter by grade"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /exam-results [get]
func (h *ExamResultHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get an exam result
// @Tags ExamResults
// @Produce json
// @Param id path int true "Exam result ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /exam-results/{id} [get]
func (h *ExamResultHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create an exam result
// @Tags ExamResults
// @Accept json
// @Produce json
// @Param payload body service.CreateExamResultRequest true "Exam result payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /exam-results [post]
func (h *ExamResultHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update an exam result
// @Tags ExamResults
// @Accept json
// @Produce json
// @Param id path int true "Exam result ID"
// @Param payload body service.UpdateExamResultRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /exam-results/{id} [put]
// @Router /exam-results/{id} [patch]
func (h *ExamResultHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete an exam result
// @Tags ExamResults
// @Param id path int true "Exam result ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /exam-results/{id} [delete]
func (h *ExamResultHandler) Delete(c *gin.Context) { h.delete(c) }
