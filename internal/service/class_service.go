package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

const (
	classResource       = "classes"
	classSlotTakenError = "Class already exists for this course, teacher, room, and schedule"
)

type classRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Class, int, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	ExistsSlot(ctx context.Context, class *models.Class, excludeID int64) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
}

// CreateClassRequest is the payload for new classes.
type CreateClassRequest struct {
	CourseID        int64   `json:"course_id" validate:"required,gt=0"`
	TeacherID       int64   `json:"teacher_id" validate:"required,gt=0"`
	Room            *string `json:"room" validate:"omitempty,max=50"`
	Schedule        *string `json:"schedule" validate:"omitempty,max=255"`
	MaxStudents     *int    `json:"max_students" validate:"omitnil,min=1"`
	CurrentStudents *int    `json:"current_students" validate:"omitnil,min=0"`
}

// UpdateClassRequest is the partial update payload for classes.
type UpdateClassRequest struct {
	CourseID        *int64  `json:"course_id" validate:"omitnil,gt=0"`
	TeacherID       *int64  `json:"teacher_id" validate:"omitnil,gt=0"`
	Room            *string `json:"room" validate:"omitnil,max=50"`
	Schedule        *string `json:"schedule" validate:"omitnil,max=255"`
	MaxStudents     *int    `json:"max_students" validate:"omitnil,min=1"`
	CurrentStudents *int    `json:"current_students" validate:"omitnil,min=0"`
}

// ClassService manages class sections.
type ClassService struct {
	repo      classRepository
	relations Relations
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewClassService constructs a ClassService. relations must provide Courses and Teachers.
func NewClassService(repo classRepository, relations Relations, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, relations: relations, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns classes with course and teacher.
func (s *ClassService) List(ctx context.Context, q models.ListQuery) ([]models.ClassDetail, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list classes")
	}
	details, err := s.relations.classDetails(ctx, classes)
	if err != nil {
		return nil, nil, err
	}
	return details, models.NewPagination(q, total), nil
}

// Get returns one class with course and teacher.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassDetail, error) {
	var cached models.ClassDetail
	if s.cache.lookupDetail(ctx, classResource, id, &cached) {
		return &cached, nil
	}
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Class")
	}
	detail, err := s.detail(ctx, class)
	if err != nil {
		return nil, err
	}
	s.cache.storeDetail(ctx, classResource, id, detail)
	return detail, nil
}

// Create adds a class.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.ClassDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	class := &models.Class{
		CourseID:    req.CourseID,
		TeacherID:   req.TeacherID,
		Room:        req.Room,
		Schedule:    req.Schedule,
		MaxStudents: models.DefaultMaxStudents,
	}
	if req.MaxStudents != nil {
		class.MaxStudents = *req.MaxStudents
	}
	if req.CurrentStudents != nil {
		class.CurrentStudents = *req.CurrentStudents
	}
	if err := checkCapacity(class); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, class.CourseID, class.TeacherID); err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, class, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, s.persistError(err, "create class")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, class)
}

// Update modifies a class.
func (s *ClassService) Update(ctx context.Context, id int64, req UpdateClassRequest) (*models.ClassDetail, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Class")
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.CourseID != nil {
		if _, err := s.relations.requireCourse(ctx, *req.CourseID); err != nil {
			return nil, err
		}
		class.CourseID = *req.CourseID
	}
	if req.TeacherID != nil {
		if _, err := s.relations.requireTeacher(ctx, *req.TeacherID); err != nil {
			return nil, err
		}
		class.TeacherID = *req.TeacherID
	}
	if req.Room != nil {
		class.Room = req.Room
	}
	if req.Schedule != nil {
		class.Schedule = req.Schedule
	}
	if req.MaxStudents != nil {
		class.MaxStudents = *req.MaxStudents
	}
	if req.CurrentStudents != nil {
		class.CurrentStudents = *req.CurrentStudents
	}
	if err := checkCapacity(class); err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, class, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, s.persistError(err, "update class")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, class)
}

// Delete removes a class and its attendance records.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "Class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete class")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

func checkCapacity(class *models.Class) error {
	if class.CurrentStudents > class.MaxStudents {
		return appErrors.Field(appErrors.ErrValidation, "current_students", "The current students may not be greater than max students.")
	}
	return nil
}

func (s *ClassService) checkReferences(ctx context.Context, courseID, teacherID int64) error {
	if _, err := s.relations.requireCourse(ctx, courseID); err != nil {
		return err
	}
	if _, err := s.relations.requireTeacher(ctx, teacherID); err != nil {
		return err
	}
	return nil
}

// ensureSlotFree only probes fully specified slots; NULL room or schedule never
// collides under classes_slot_key.
func (s *ClassService) ensureSlotFree(ctx context.Context, class *models.Class, excludeID int64) error {
	if class.Room == nil || class.Schedule == nil {
		return nil
	}
	taken, err := s.repo.ExistsSlot(ctx, class, excludeID)
	if err != nil {
		return internalError(err, "failed to validate class slot")
	}
	if taken {
		return duplicate(classSlotTakenError)
	}
	return nil
}

func (s *ClassService) detail(ctx context.Context, class *models.Class) (*models.ClassDetail, error) {
	details, err := s.relations.classDetails(ctx, []models.Class{*class})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *ClassService) persistError(err error, action string) error {
	return persistError(err, "Class", action, map[string]error{
		"classes_slot_key":        duplicate(classSlotTakenError),
		"classes_course_id_fkey":  notFound("Course"),
		"classes_teacher_id_fkey": notFound("Teacher"),
	})
}
