package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

const courseResource = "courses"

type courseRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Course, int, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	Roster(ctx context.Context, courseID int64) ([]models.RosterEntry, error)
}

// CreateCourseRequest is the payload for new courses.
type CreateCourseRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Code         string  `json:"code" validate:"required,max=50"`
	Description  *string `json:"description"`
	Credits      *int    `json:"credits" validate:"required,min=1"`
	StartDate    *string `json:"start_date" validate:"omitempty,date"`
	EndDate      *string `json:"end_date" validate:"omitempty,date"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,gt=0"`
}

// UpdateCourseRequest is the partial update payload for courses.
type UpdateCourseRequest struct {
	Name         *string `json:"name" validate:"omitnil,min=1,max=255"`
	Code         *string `json:"code" validate:"omitnil,min=1,max=50"`
	Description  *string `json:"description"`
	Credits      *int    `json:"credits" validate:"omitnil,min=1"`
	StartDate    *string `json:"start_date" validate:"omitnil,date"`
	EndDate      *string `json:"end_date" validate:"omitnil,date"`
	DepartmentID *int64  `json:"department_id" validate:"omitnil,gt=0"`
}

// CourseService manages courses and their roster.
type CourseService struct {
	repo      courseRepository
	relations Relations
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService. relations must provide Departments.
func NewCourseService(repo courseRepository, relations Relations, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, relations: relations, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns courses with their department.
func (s *CourseService) List(ctx context.Context, q models.ListQuery) ([]models.CourseDetail, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list courses")
	}
	details, err := s.withDepartments(ctx, courses)
	if err != nil {
		return nil, nil, err
	}
	return details, models.NewPagination(q, total), nil
}

// Get returns one course with its department.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.CourseDetail, error) {
	var cached models.CourseDetail
	if s.cache.lookupDetail(ctx, courseResource, id, &cached) {
		return &cached, nil
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Course")
	}
	detail, err := s.detail(ctx, course)
	if err != nil {
		return nil, err
	}
	s.cache.storeDetail(ctx, courseResource, id, detail)
	return detail, nil
}

// Create adds a course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.CourseDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	course := &models.Course{
		Name:         req.Name,
		Code:         strings.TrimSpace(req.Code),
		Description:  req.Description,
		Credits:      *req.Credits,
		StartDate:    optionalDate(req.StartDate),
		EndDate:      optionalDate(req.EndDate),
		DepartmentID: req.DepartmentID,
	}
	if err := checkCourseDates(course); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, course.Code, 0); err != nil {
		return nil, err
	}
	if course.DepartmentID != nil {
		if _, err := s.relations.requireDepartment(ctx, *course.DepartmentID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, s.persistError(err, "create course")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, course)
}

// Update modifies a course.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Course")
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.StartDate != nil {
		course.StartDate = optionalDate(req.StartDate)
	}
	if req.EndDate != nil {
		course.EndDate = optionalDate(req.EndDate)
	}
	if err := checkCourseDates(course); err != nil {
		return nil, err
	}
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if err := s.ensureCodeFree(ctx, code, id); err != nil {
			return nil, err
		}
		course.Code = code
	}
	if req.DepartmentID != nil {
		if _, err := s.relations.requireDepartment(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		course.DepartmentID = req.DepartmentID
	}
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, s.persistError(err, "update course")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, course)
}

// Delete removes a course together with its classes, exams, enrollments and assignments.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "Course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete course")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

// Roster lists the students enrolled in a course.
func (s *CourseService) Roster(ctx context.Context, id int64) (*models.Course, []models.RosterEntry, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, loadError(err, "Course")
	}
	entries, err := s.repo.Roster(ctx, id)
	if err != nil {
		return nil, nil, internalError(err, "failed to load course roster")
	}
	return course, entries, nil
}

// checkCourseDates enforces end_date >= start_date when both are known.
func checkCourseDates(course *models.Course) error {
	if course.StartDate == nil || course.EndDate == nil {
		return nil
	}
	if course.EndDate.Before(course.StartDate.Time) {
		return appErrors.Field(appErrors.ErrValidation, "end_date", "The end date must be a date after or equal to start date.")
	}
	return nil
}

func (s *CourseService) detail(ctx context.Context, course *models.Course) (*models.CourseDetail, error) {
	details, err := s.withDepartments(ctx, []models.Course{*course})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *CourseService) withDepartments(ctx context.Context, courses []models.Course) ([]models.CourseDetail, error) {
	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		if c.DepartmentID != nil {
			ids = append(ids, *c.DepartmentID)
		}
	}
	departments, err := s.relations.departmentsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	details := make([]models.CourseDetail, 0, len(courses))
	for _, c := range courses {
		detail := models.CourseDetail{Course: c}
		if c.DepartmentID != nil {
			detail.Department = departments[*c.DepartmentID]
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *CourseService) ensureCodeFree(ctx context.Context, code string, excludeID int64) error {
	taken, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return internalError(err, "failed to validate code")
	}
	if taken {
		return fieldTaken("code")
	}
	return nil
}

func (s *CourseService) persistError(err error, action string) error {
	return persistError(err, "Course", action, map[string]error{
		"courses_code_key":           fieldTaken("code"),
		"courses_department_id_fkey": notFound("Department"),
	})
}
