package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/validation"
)

const departmentResource = "departments"

type departmentRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Department, int, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id int64) error
}

// CreateDepartmentRequest is the payload for new departments.
type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Code        string  `json:"code" validate:"required,max=50"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	HeadID      *int64  `json:"head_id" validate:"omitempty,gt=0"`
}

// UpdateDepartmentRequest is the partial update payload for departments.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Code        *string `json:"code" validate:"omitnil,min=1,max=50"`
	Location    *string `json:"location" validate:"omitnil,max=255"`
	Description *string `json:"description"`
	HeadID      *int64  `json:"head_id" validate:"omitnil,gt=0"`
}

// DepartmentService manages departments and their head teacher.
type DepartmentService struct {
	repo      departmentRepository
	relations Relations
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewDepartmentService constructs a DepartmentService. relations must provide Teachers.
func NewDepartmentService(repo departmentRepository, relations Relations, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, relations: relations, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns departments with their head.
func (s *DepartmentService) List(ctx context.Context, q models.ListQuery) ([]models.DepartmentDetail, *models.Pagination, error) {
	departments, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list departments")
	}
	details, err := s.withHeads(ctx, departments)
	if err != nil {
		return nil, nil, err
	}
	return details, models.NewPagination(q, total), nil
}

// Get returns one department with its head.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.DepartmentDetail, error) {
	var cached models.DepartmentDetail
	if s.cache.lookupDetail(ctx, departmentResource, id, &cached) {
		return &cached, nil
	}
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Department")
	}
	details, err := s.withHeads(ctx, []models.Department{*department})
	if err != nil {
		return nil, err
	}
	s.cache.storeDetail(ctx, departmentResource, id, details[0])
	return &details[0], nil
}

// Create adds a department.
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*models.DepartmentDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if err := s.ensureCodeFree(ctx, code, 0); err != nil {
		return nil, err
	}
	if req.HeadID != nil {
		if _, err := s.relations.requireTeacher(ctx, *req.HeadID); err != nil {
			return nil, err
		}
	}
	department := &models.Department{
		Name:        req.Name,
		Code:        code,
		Location:    req.Location,
		Description: req.Description,
		HeadID:      req.HeadID,
	}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, s.persistError(err, "create department")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, department)
}

// Update modifies a department.
func (s *DepartmentService) Update(ctx context.Context, id int64, req UpdateDepartmentRequest) (*models.DepartmentDetail, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Department")
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if err := s.ensureCodeFree(ctx, code, id); err != nil {
			return nil, err
		}
		department.Code = code
	}
	if req.HeadID != nil {
		if _, err := s.relations.requireTeacher(ctx, *req.HeadID); err != nil {
			return nil, err
		}
		department.HeadID = req.HeadID
	}
	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.Location != nil {
		department.Location = req.Location
	}
	if req.Description != nil {
		department.Description = req.Description
	}
	if err := s.repo.Update(ctx, department); err != nil {
		return nil, s.persistError(err, "update department")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, department)
}

// Delete removes a department; its courses are kept without a department.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "Department")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete department")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

func (s *DepartmentService) detail(ctx context.Context, department *models.Department) (*models.DepartmentDetail, error) {
	details, err := s.withHeads(ctx, []models.Department{*department})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *DepartmentService) withHeads(ctx context.Context, departments []models.Department) ([]models.DepartmentDetail, error) {
	headIDs := make([]int64, 0, len(departments))
	for _, d := range departments {
		if d.HeadID != nil {
			headIDs = append(headIDs, *d.HeadID)
		}
	}
	heads, err := s.relations.teachersByID(ctx, headIDs)
	if err != nil {
		return nil, err
	}
	details := make([]models.DepartmentDetail, 0, len(departments))
	for _, d := range departments {
		detail := models.DepartmentDetail{Department: d}
		if d.HeadID != nil {
			detail.Head = heads[*d.HeadID]
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *DepartmentService) ensureCodeFree(ctx context.Context, code string, excludeID int64) error {
	taken, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return internalError(err, "failed to validate code")
	}
	if taken {
		return fieldTaken("code")
	}
	return nil
}

func (s *DepartmentService) persistError(err error, action string) error {
	return persistError(err, "Department", action, map[string]error{
		"departments_code_key":     fieldTaken("code"),
		"departments_head_id_fkey": notFound("Teacher"),
	})
}
