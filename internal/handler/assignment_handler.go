package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// AssignmentHandler exposes assignment endpoints.
type AssignmentHandler struct {
	crud[models.AssignmentDetail, models.AssignmentDetail, service.CreateAssignmentRequest, service.UpdateAssignmentRequest]
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{crud: newCRUD[models.AssignmentDetail, models.AssignmentDetail, service.CreateAssignmentRequest, service.UpdateAssignmentRequest](svc, "Assignment")}
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param course_id query int false "Filter by course"
// @Param title query string false "Filter by title (substring)"
// @Param due_date query string false "Filter by due date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get an assignment
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param payload body service.UpdateAssignmentRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /assignments/{id} [put]
// @Router /assignments/{id} [patch]
func (h *AssignmentHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete an assignment
// @Tags Assignments
// @Param id path int true "Assignment ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) { h.delete(c) }
