package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const departmentColumns = "id, name, code, location, description, head_id, created_at, updated_at"

var departmentFilters = filterSet{
	"id":          {"id", matchInt},
	"name":        {"name", matchLike},
	"code":        {"code", matchLike},
	"location":    {"location", matchLike},
	"description": {"description", matchLike},
	"head_id":     {"head_id", matchInt},
}

// DepartmentRepository persists departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) List(ctx context.Context, q models.ListQuery) ([]models.Department, int, error) {
	conds := departmentFilters.where(q.Filters)
	departments := make([]models.Department, 0)
	if err := selectPage(ctx, r.db, &departments, psql.Select(departmentColumns).From("departments"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}
	total, err := listTotal(ctx, r.db, "departments", conds, q, len(departments))
	if err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}
	return departments, total, nil
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	var department models.Department
	if err := getByID(ctx, r.db, &department, "departments", departmentColumns, id); err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *DepartmentRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Department, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var departments []models.Department
	if err := selectByIDs(ctx, r.db, &departments, "departments", departmentColumns, ids); err != nil {
		return nil, fmt.Errorf("find departments: %w", err)
	}
	return departments, nil
}

// ExistsByCode checks department code uniqueness.
func (r *DepartmentRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	found, err := exists(ctx, r.db, "departments", squirrel.Eq{"code": code}, excludeID)
	if err != nil {
		return false, fmt.Errorf("check department code: %w", err)
	}
	return found, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	builder := psql.Insert("departments").
		Columns("name", "code", "location", "description", "head_id").
		Values(department.Name, department.Code, department.Location, department.Description, department.HeadID)
	if err := insertReturning(ctx, r.db, builder, &department.ID, &department.CreatedAt, &department.UpdatedAt); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	builder := psql.Update("departments").SetMap(map[string]interface{}{
		"name":        department.Name,
		"code":        department.Code,
		"location":    department.Location,
		"description": department.Description,
		"head_id":     department.HeadID,
	}).Where(squirrel.Eq{"id": department.ID})
	if err := updateReturning(ctx, r.db, builder, &department.UpdatedAt); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "departments", id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}
