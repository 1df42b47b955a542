package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// DepartmentHandler exposes department endpoints.
type DepartmentHandler struct {
	crud[models.DepartmentDetail, models.DepartmentDetail, service.CreateDepartmentRequest, service.UpdateDepartmentRequest]
}

// NewDepartmentHandler constructs DepartmentHandler.
func NewDepartmentHandler(svc *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{crud: newCRUD[models.DepartmentDetail, models.DepartmentDetail, service.CreateDepartmentRequest, service.UpdateDepartmentRequest](svc, "Department")}
}

// List godoc
// @Summary List departments
// @Tags Departments
// @Produce json
// @Param name query string false "Filter by name (substring)"
// @Param code query string false "Filter by code"
// @Param head_id query int false "Filter by head teacher"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get a department
// @Tags Departments
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /departments/{id} [get]
func (h *DepartmentHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create a department
// @Tags Departments
// @Accept json
// @Produce json
// @Param payload body service.CreateDepartmentRequest true "Department payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update a department
// @Tags Departments
// @Accept json
// @Produce json
// @Param id path int true "Department ID"
// @Param payload body service.UpdateDepartmentRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /departments/{id} [put]
// @Router /departments/{id} [patch]
func (h *DepartmentHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete a department
// @Tags Departments
// @Param id path int true "Department ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) { h.delete(c) }
