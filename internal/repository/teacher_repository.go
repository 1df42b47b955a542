package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const teacherColumns = "id, first_name, last_name, email, phone, department, hire_date, created_at, updated_at"

var teacherFilters = filterSet{
	"id":         {"id", matchInt},
	"first_name": {"first_name", matchLike},
	"last_name":  {"last_name", matchLike},
	"email":      {"email", matchLike},
	"phone":      {"phone", matchLike},
	"department": {"department", matchLike},
	"hire_date":  {"hire_date", matchDate},
}.withAliases(map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"hireDate":  "hire_date",
})

// TeacherRepository handles persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository instantiates the repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers filtered by query parameters.
func (r *TeacherRepository) List(ctx context.Context, q models.ListQuery) ([]models.Teacher, int, error) {
	conds := teacherFilters.where(q.Filters)
	teachers := make([]models.Teacher, 0)
	if err := selectPage(ctx, r.db, &teachers, psql.Select(teacherColumns).From("teachers"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}
	total, err := listTotal(ctx, r.db, "teachers", conds, q, len(teachers))
	if err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}
	return teachers, total, nil
}

// FindByID returns a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := getByID(ctx, r.db, &teacher, "teachers", teacherColumns, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByIDs returns the teachers with the given IDs.
func (r *TeacherRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Teacher, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var teachers []models.Teacher
	if err := selectByIDs(ctx, r.db, &teachers, "teachers", teacherColumns, ids); err != nil {
		return nil, fmt.Errorf("find teachers: %w", err)
	}
	return teachers, nil
}

// ExistsByEmail checks whether the email is already used by another teacher.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	found, err := exists(ctx, r.db, "teachers", squirrel.Eq{"email": email}, excludeID)
	if err != nil {
		return false, fmt.Errorf("check teacher email: %w", err)
	}
	return found, nil
}

// Create inserts a teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	builder := psql.Insert("teachers").
		Columns("first_name", "last_name", "email", "phone", "department", "hire_date").
		Values(teacher.FirstName, teacher.LastName, teacher.Email, teacher.Phone, teacher.Department, teacher.HireDate)
	if err := insertReturning(ctx, r.db, builder, &teacher.ID, &teacher.CreatedAt, &teacher.UpdatedAt); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update modifies teacher data.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	builder := psql.Update("teachers").SetMap(map[string]interface{}{
		"first_name": teacher.FirstName,
		"last_name":  teacher.LastName,
		"email":      teacher.Email,
		"phone":      teacher.Phone,
		"department": teacher.Department,
		"hire_date":  teacher.HireDate,
	}).Where(squirrel.Eq{"id": teacher.ID})
	if err := updateReturning(ctx, r.db, builder, &teacher.UpdatedAt); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// Delete removes a teacher; departments they head keep existing without a head.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "teachers", id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}
