package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const assignmentColumns = "id, course_id, title, description, due_date, max_score, created_at, updated_at"

var assignmentFilters = filterSet{
	"id":          {"id", matchInt},
	"course_id":   {"course_id", matchInt},
	"title":       {"title", matchLike},
	"description": {"description", matchLike},
	"due_date":    {"due_date", matchDate},
	"max_score":   {"max_score", matchFloat},
}.withAliases(map[string]string{
	"courseId": "course_id",
	"dueDate":  "due_date",
	"maxScore": "max_score",
})

// AssignmentRepository persists course assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) List(ctx context.Context, q models.ListQuery) ([]models.Assignment, int, error) {
	conds := assignmentFilters.where(q.Filters)
	assignments := make([]models.Assignment, 0)
	if err := selectPage(ctx, r.db, &assignments, psql.Select(assignmentColumns).From("assignments"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}
	total, err := listTotal(ctx, r.db, "assignments", conds, q, len(assignments))
	if err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}
	return assignments, total, nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := getByID(ctx, r.db, &assignment, "assignments", assignmentColumns, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	builder := psql.Insert("assignments").
		Columns("course_id", "title", "description", "due_date", "max_score").
		Values(assignment.CourseID, assignment.Title, assignment.Description, assignment.DueDate, assignment.MaxScore)
	if err := insertReturning(ctx, r.db, builder, &assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	builder := psql.Update("assignments").SetMap(map[string]interface{}{
		"course_id":   assignment.CourseID,
		"title":       assignment.Title,
		"description": assignment.Description,
		"due_date":    assignment.DueDate,
		"max_score":   assignment.MaxScore,
	}).Where(squirrel.Eq{"id": assignment.ID})
	if err := updateReturning(ctx, r.db, builder, &assignment.UpdatedAt); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "assignments", id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
