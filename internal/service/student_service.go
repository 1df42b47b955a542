package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/validation"
)

const studentResource = "students"

type studentRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	FirstName      string  `json:"first_name" validate:"required,max=255"`
	LastName       string  `json:"last_name" validate:"required,max=255"`
	Email          string  `json:"email" validate:"required,email,max=255"`
	BirthDate      *string `json:"birth_date" validate:"omitempty,date"`
	EnrollmentDate string  `json:"enrollment_date" validate:"required,date"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
}

// UpdateStudentRequest holds payload for updating students. Omitted fields keep their value.
type UpdateStudentRequest struct {
	FirstName      *string `json:"first_name" validate:"omitnil,min=1,max=255"`
	LastName       *string `json:"last_name" validate:"omitnil,min=1,max=255"`
	Email          *string `json:"email" validate:"omitnil,email,max=255"`
	BirthDate      *string `json:"birth_date" validate:"omitnil,date"`
	EnrollmentDate *string `json:"enrollment_date" validate:"omitnil,date"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone" validate:"omitnil,max=20"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, q models.ListQuery) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list students")
	}
	return students, models.NewPagination(q, total), nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	var cached models.Student
	if s.cache.lookupDetail(ctx, studentResource, id, &cached) {
		return &cached, nil
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Student")
	}
	s.cache.storeDetail(ctx, studentResource, id, student)
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	student := &models.Student{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          email,
		BirthDate:      optionalDate(req.BirthDate),
		EnrollmentDate: mustDate(req.EnrollmentDate),
		Address:        req.Address,
		Phone:          req.Phone,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, s.persistError(err, "create student")
	}
	s.cache.invalidateDetails(ctx)
	return student, nil
}

// Update modifies an existing student record.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Student")
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		student.Email = email
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.BirthDate != nil {
		student.BirthDate = optionalDate(req.BirthDate)
	}
	if req.EnrollmentDate != nil {
		student.EnrollmentDate = mustDate(*req.EnrollmentDate)
	}
	if req.Address != nil {
		student.Address = req.Address
	}
	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, s.persistError(err, "update student")
	}
	s.cache.invalidateDetails(ctx)
	return student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "Student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete student")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

func (s *StudentService) ensureEmailFree(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return internalError(err, "failed to validate email")
	}
	if taken {
		return fieldTaken("email")
	}
	return nil
}

func (s *StudentService) persistError(err error, action string) error {
	return persistError(err, "Student", action, map[string]error{
		"students_email_key": fieldTaken("email"),
	})
}
