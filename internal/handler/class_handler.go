package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// ClassHandler exposes class endpoints.
type ClassHandler struct {
	crud[models.ClassDetail, models.ClassDetail, service.CreateClassRequest, service.UpdateClassRequest]
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{crud: newCRUD[models.ClassDetail, models.ClassDetail, service.CreateClassRequest, service.UpdateClassRequest](svc, "Class")}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param course_id query int false "Filter by course"
// @Param teacher_id query int false "Filter by teacher"
// @Param room query string false "Filter by room (substring)"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get a class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body service.UpdateClassRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /classes/{id} [put]
// @Router /classes/{id} [patch]
func (h *ClassHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete a class
// @Tags Classes
// @Param id path int true "Class ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) { h.delete(c) }
