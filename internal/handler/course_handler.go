package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
	"github.com/noah-isme/school-api/pkg/response"
)

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	crud[models.CourseDetail, models.CourseDetail, service.CreateCourseRequest, service.UpdateCourseRequest]
	exports *service.ExportService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(svc *service.CourseService, exports *service.ExportService) *CourseHandler {
	return &CourseHandler{
		crud:    newCRUD[models.CourseDetail, models.CourseDetail, service.CreateCourseRequest, service.UpdateCourseRequest](svc, "Course"),
		exports: exports,
	}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param name query string false "Filter by name (substring)"
// @Param code query string false "Filter by code"
// @Param credits query int false "Filter by credits"
// @Param department_id query int false "Filter by department"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get a course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body service.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /courses/{id} [put]
// @Router /courses/{id} [patch]
func (h *CourseHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete a course
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) { h.delete(c) }

// Roster godoc
// @Summary Export the course roster
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Course ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 404 {object} errors.Error
// @Router /courses/{id}/roster [get]
func (h *CourseHandler) Roster(c *gin.Context) {
	id, ok := pathID(c, h.entity)
	if !ok {
		return
	}
	file, err := h.exports.CourseRoster(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
