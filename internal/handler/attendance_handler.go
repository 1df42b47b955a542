package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// AttendanceHandler exposes attendance record endpoints.
type AttendanceHandler struct {
	crud[models.AttendanceDetail, models.AttendanceDetail, service.CreateAttendanceRequest, service.UpdateAttendanceRequest]
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{crud: newCRUD[models.AttendanceDetail, models.AttendanceDetail, service.CreateAttendanceRequest, service.UpdateAttendanceRequest](svc, "Attendance record")}
}

// List godoc
// @Summary List attendances
// @Tags Attendances
// @Produce json
// @Param student_id query int false "Filter by student"
// @Param class_id query int false "Filter by class"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /attendances [get]
func (h *AttendanceHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get an attendance record
// @Tags Attendances
// @Produce json
// @Param id path int true "Attendance record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /attendances/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create an attendance record
// @Tags Attendances
// @Accept json
// @Produce json
// @Param payload body service.CreateAttendanceRequest true "Attendance record payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /attendances [post]
func (h *AttendanceHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update an attendance record
// @Tags Attendances
// @Accept json
// @Produce json
// @Param id path int true "Attendance record ID"
// @Param payload body service.UpdateAttendanceRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /attendances/{id} [put]
// @Router /attendances/{id} [patch]
func (h *AttendanceHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete an attendance record
// @Tags Attendances
// @Param id path int true "Attendance record ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /attendances/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) { h.delete(c) }
