package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/validation"
)

const enrollmentResource = "enrollments"

type enrollmentRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Enrollment, int, error)
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

// CreateEnrollmentRequest is the payload for enrolling a student in a course.
type CreateEnrollmentRequest struct {
	StudentID      int64    `json:"student_id" validate:"required,gt=0"`
	CourseID       int64    `json:"course_id" validate:"required,gt=0"`
	EnrollmentDate *string  `json:"enrollment_date" validate:"omitempty,date"`
	Grade          *float64 `json:"grade"`
	Status         *string  `json:"status" validate:"omitempty,max=20"`
}

// UpdateEnrollmentRequest is the partial update payload for enrollments.
type UpdateEnrollmentRequest struct {
	StudentID      *int64   `json:"student_id" validate:"omitnil,gt=0"`
	CourseID       *int64   `json:"course_id" validate:"omitnil,gt=0"`
	EnrollmentDate *string  `json:"enrollment_date" validate:"omitnil,date"`
	Grade          *float64 `json:"grade"`
	Status         *string  `json:"status" validate:"omitnil,max=20"`
}

// EnrollmentService manages course enrollments.
type EnrollmentService struct {
	repo      enrollmentRepository
	relations Relations
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService. relations must provide Students and Courses.
func NewEnrollmentService(repo enrollmentRepository, relations Relations, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:      repo,
		relations: relations,
		validator: defaultValidator(validate),
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns enrollments with student and course.
func (s *EnrollmentService) List(ctx context.Context, q models.ListQuery) ([]models.EnrollmentDetail, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list enrollments")
	}
	details, err := s.withRelations(ctx, enrollments)
	if err != nil {
		return nil, nil, err
	}
	return details, models.NewPagination(q, total), nil
}

// Get returns one enrollment.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	var cached models.EnrollmentDetail
	if s.cache.lookupDetail(ctx, enrollmentResource, id, &cached) {
		return &cached, nil
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Enrollment")
	}
	detail, err := s.detail(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	s.cache.storeDetail(ctx, enrollmentResource, id, detail)
	return detail, nil
}

// Create enrolls a student. The enrollment date defaults to today.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if _, err := s.relations.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}
	if _, err := s.relations.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}
	enrollment := &models.Enrollment{
		StudentID:      req.StudentID,
		CourseID:       req.CourseID,
		EnrollmentDate: models.NewDate(s.now()),
		Grade:          req.Grade,
		Status:         req.Status,
	}
	if d := optionalDate(req.EnrollmentDate); d != nil {
		enrollment.EnrollmentDate = *d
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, s.persistError(err, "create enrollment")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, enrollment)
}

// Update modifies an enrollment.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req UpdateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Enrollment")
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.StudentID != nil {
		if _, err := s.relations.requireStudent(ctx, *req.StudentID); err != nil {
			return nil, err
		}
		enrollment.StudentID = *req.StudentID
	}
	if req.CourseID != nil {
		if _, err := s.relations.requireCourse(ctx, *req.CourseID); err != nil {
			return nil, err
		}
		enrollment.CourseID = *req.CourseID
	}
	if d := optionalDate(req.EnrollmentDate); d != nil {
		enrollment.EnrollmentDate = *d
	}
	if req.Grade != nil {
		enrollment.Grade = req.Grade
	}
	if req.Status != nil {
		enrollment.Status = req.Status
	}
	if err := s.repo.Update(ctx, enrollment); err != nil {
		return nil, s.persistError(err, "update enrollment")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, enrollment)
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "Enrollment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete enrollment")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

func (s *EnrollmentService) detail(ctx context.Context, enrollment *models.Enrollment) (*models.EnrollmentDetail, error) {
	details, err := s.withRelations(ctx, []models.Enrollment{*enrollment})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *EnrollmentService) withRelations(ctx context.Context, enrollments []models.Enrollment) ([]models.EnrollmentDetail, error) {
	studentIDs := make([]int64, 0, len(enrollments))
	courseIDs := make([]int64, 0, len(enrollments))
	for _, e := range enrollments {
		studentIDs = append(studentIDs, e.StudentID)
		courseIDs = append(courseIDs, e.CourseID)
	}
	students, err := s.relations.studentsByID(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	courses, err := s.relations.coursesByID(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	details := make([]models.EnrollmentDetail, 0, len(enrollments))
	for _, e := range enrollments {
		details = append(details, models.EnrollmentDetail{
			Enrollment: e,
			Student:    students[e.StudentID],
			Course:     courses[e.CourseID],
		})
	}
	return details, nil
}

func (s *EnrollmentService) persistError(err error, action string) error {
	return persistError(err, "Enrollment", action, map[string]error{
		"enrollments_student_id_fkey": notFound("Student"),
		"enrollments_course_id_fkey":  notFound("Course"),
	})
}
