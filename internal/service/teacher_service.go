package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/validation"
)

const teacherResource = "teachers"

type teacherRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id int64) error
}

// CreateTeacherRequest represents payload to create a teacher.
type CreateTeacherRequest struct {
	FirstName  string  `json:"first_name" validate:"required,max=255"`
	LastName   string  `json:"last_name" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	HireDate   *string `json:"hire_date" validate:"omitempty,date"`
}

// UpdateTeacherRequest represents payload to update teacher data.
type UpdateTeacherRequest struct {
	FirstName  *string `json:"first_name" validate:"omitnil,min=1,max=255"`
	LastName   *string `json:"last_name" validate:"omitnil,min=1,max=255"`
	Email      *string `json:"email" validate:"omitnil,email,max=255"`
	Phone      *string `json:"phone" validate:"omitnil,max=20"`
	Department *string `json:"department" validate:"omitnil,max=100"`
	HireDate   *string `json:"hire_date" validate:"omitnil,date"`
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	repo      teacherRepository
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewTeacherService builds a TeacherService.
func NewTeacherService(repo teacherRepository, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns teachers and pagination metadata.
func (s *TeacherService) List(ctx context.Context, q models.ListQuery) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list teachers")
	}
	return teachers, models.NewPagination(q, total), nil
}

// Get fetches a teacher.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	var cached models.Teacher
	if s.cache.lookupDetail(ctx, teacherResource, id, &cached) {
		return &cached, nil
	}
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Teacher")
	}
	s.cache.storeDetail(ctx, teacherResource, id, teacher)
	return teacher, nil
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	teacher := &models.Teacher{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      email,
		Phone:      req.Phone,
		Department: req.Department,
		HireDate:   optionalDate(req.HireDate),
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, s.persistError(err, "create teacher")
	}
	s.cache.invalidateDetails(ctx)
	return teacher, nil
}

// Update modifies teacher data.
func (s *TeacherService) Update(ctx context.Context, id int64, req UpdateTeacherRequest) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Teacher")
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		teacher.Email = email
	}
	if req.FirstName != nil {
		teacher.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		teacher.LastName = *req.LastName
	}
	if req.Phone != nil {
		teacher.Phone = req.Phone
	}
	if req.Department != nil {
		teacher.Department = req.Department
	}
	if req.HireDate != nil {
		teacher.HireDate = optionalDate(req.HireDate)
	}
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, s.persistError(err, "update teacher")
	}
	s.cache.invalidateDetails(ctx)
	return teacher, nil
}

// Delete removes a teacher.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "Teacher")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete teacher")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

func (s *TeacherService) ensureEmailFree(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return internalError(err, "failed to validate email")
	}
	if taken {
		return fieldTaken("email")
	}
	return nil
}

func (s *TeacherService) persistError(err error, action string) error {
	return persistError(err, "Teacher", action, map[string]error{
		"teachers_email_key": fieldTaken("email"),
	})
}
