package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/validation"
)

const assignmentResource = "assignments"

type assignmentRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Assignment, int, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id int64) error
}

// CreateAssignmentRequest is the payload for new coursework.
type CreateAssignmentRequest struct {
	CourseID    int64    `json:"course_id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,max=255"`
	Description *string  `json:"description"`
	DueDate     *string  `json:"due_date" validate:"omitempty,date"`
	MaxScore    *float64 `json:"max_score" validate:"omitnil,min=0"`
}

// UpdateAssignmentRequest is the partial update payload for assignments.
type UpdateAssignmentRequest struct {
	CourseID    *int64   `json:"course_id" validate:"omitnil,gt=0"`
	Title       *string  `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string  `json:"description"`
	DueDate     *string  `json:"due_date" validate:"omitnil,date"`
	MaxScore    *float64 `json:"max_score" validate:"omitnil,min=0"`
}

// AssignmentService manages course assignments.
type AssignmentService struct {
	repo      assignmentRepository
	relations Relations
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService. relations must provide Courses.
func NewAssignmentService(repo assignmentRepository, relations Relations, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, relations: relations, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns assignments with their course.
func (s *AssignmentService) List(ctx context.Context, q models.ListQuery) ([]models.AssignmentDetail, *models.Pagination, error) {
	assignments, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list assignments")
	}
	details, err := s.withCourses(ctx, assignments)
	if err != nil {
		return nil, nil, err
	}
	return details, models.NewPagination(q, total), nil
}

// Get returns one assignment.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.AssignmentDetail, error) {
	var cached models.AssignmentDetail
	if s.cache.lookupDetail(ctx, assignmentResource, id, &cached) {
		return &cached, nil
	}
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Assignment")
	}
	detail, err := s.detail(ctx, assignment)
	if err != nil {
		return nil, err
	}
	s.cache.storeDetail(ctx, assignmentResource, id, detail)
	return detail, nil
}

// Create adds an assignment to a course.
func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*models.AssignmentDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if _, err := s.relations.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}
	assignment := &models.Assignment{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     optionalDate(req.DueDate),
		MaxScore:    req.MaxScore,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, s.persistError(err, "create assignment")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, assignment)
}

// Update modifies an assignment.
func (s *AssignmentService) Update(ctx context.Context, id int64, req UpdateAssignmentRequest) (*models.AssignmentDetail, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Assignment")
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.CourseID != nil {
		if _, err := s.relations.requireCourse(ctx, *req.CourseID); err != nil {
			return nil, err
		}
		assignment.CourseID = *req.CourseID
	}
	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = req.Description
	}
	if req.DueDate != nil {
		assignment.DueDate = optionalDate(req.DueDate)
	}
	if req.MaxScore != nil {
		assignment.MaxScore = req.MaxScore
	}
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, s.persistError(err, "update assignment")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, assignment)
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "Assignment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete assignment")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

func (s *AssignmentService) detail(ctx context.Context, assignment *models.Assignment) (*models.AssignmentDetail, error) {
	details, err := s.withCourses(ctx, []models.Assignment{*assignment})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *AssignmentService) withCourses(ctx context.Context, assignments []models.Assignment) ([]models.AssignmentDetail, error) {
	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.CourseID)
	}
	courses, err := s.relations.coursesByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	details := make([]models.AssignmentDetail, 0, len(assignments))
	for _, a := range assignments {
		details = append(details, models.AssignmentDetail{Assignment: a, Course: courses[a.CourseID]})
	}
	return details, nil
}

func (s *AssignmentService) persistError(err error, action string) error {
	return persistError(err, "Assignment", action, map[string]error{
		"assignments_course_id_fkey": notFound("Course"),
	})
}
