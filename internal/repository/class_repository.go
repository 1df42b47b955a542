package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const classColumns = "id, course_id, teacher_id, room, schedule, max_students, current_students, created_at, updated_at"

var classFilters = filterSet{
	"id":               {"id", matchInt},
	"course_id":        {"course_id", matchInt},
	"teacher_id":       {"teacher_id", matchInt},
	"room":             {"room", matchLike},
	"schedule":         {"schedule", matchLike},
	"max_students":     {"max_students", matchInt},
	"current_students": {"current_students", matchInt},
}

// ClassRepository provides data access for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List retrieves classes with filters.
func (r *ClassRepository) List(ctx context.Context, q models.ListQuery) ([]models.Class, int, error) {
	conds := classFilters.where(q.Filters)
	classes := make([]models.Class, 0)
	if err := selectPage(ctx, r.db, &classes, psql.Select(classColumns).From("classes"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}
	total, err := listTotal(ctx, r.db, "classes", conds, q, len(classes))
	if err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	var class models.Class
	if err := getByID(ctx, r.db, &class, "classes", classColumns, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindByIDs fetches the classes with the given IDs.
func (r *ClassRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Class, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var classes []models.Class
	if err := selectByIDs(ctx, r.db, &classes, "classes", classColumns, ids); err != nil {
		return nil, fmt.Errorf("find classes: %w", err)
	}
	return classes, nil
}

// ExistsSlot reports whether the same course and teacher already meet in room at schedule.
// A slot with no room or no schedule is never taken.
func (r *ClassRepository) ExistsSlot(ctx context.Context, class *models.Class, excludeID int64) (bool, error) {
	if class.Room == nil || class.Schedule == nil {
		return false, nil
	}
	cond := squirrel.Eq{
		"course_id":  class.CourseID,
		"teacher_id": class.TeacherID,
		"room":       class.Room,
		"schedule":   class.Schedule,
	}
	found, err := exists(ctx, r.db, "classes", cond, excludeID)
	if err != nil {
		return false, fmt.Errorf("check class slot: %w", err)
	}
	return found, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	builder := psql.Insert("classes").
		Columns("course_id", "teacher_id", "room", "schedule", "max_students", "current_students").
		Values(class.CourseID, class.TeacherID, class.Room, class.Schedule, class.MaxStudents, class.CurrentStudents)
	if err := insertReturning(ctx, r.db, builder, &class.ID, &class.CreatedAt, &class.UpdatedAt); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	builder := psql.Update("classes").SetMap(map[string]interface{}{
		"course_id":        class.CourseID,
		"teacher_id":       class.TeacherID,
		"room":             class.Room,
		"schedule":         class.Schedule,
		"max_students":     class.MaxStudents,
		"current_students": class.CurrentStudents,
	}).Where(squirrel.Eq{"id": class.ID})
	if err := updateReturning(ctx, r.db, builder, &class.UpdatedAt); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "classes", id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
