package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const enrollmentColumns = "id, student_id, course_id, enrollment_date, grade, status, created_at, updated_at"

var enrollmentFilters = filterSet{
	"id":              {"id", matchInt},
	"student_id":      {"student_id", matchInt},
	"course_id":       {"course_id", matchInt},
	"enrollment_date": {"enrollment_date", matchDate},
	"grade":           {"grade", matchFloat},
	"status":          {"status", matchExact},
}.withAliases(map[string]string{
	"studentId":      "student_id",
	"courseId":       "course_id",
	"enrollmentDate": "enrollment_date",
})

// EnrollmentRepository persists course enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments matching the filters.
func (r *EnrollmentRepository) List(ctx context.Context, q models.ListQuery) ([]models.Enrollment, int, error) {
	conds := enrollmentFilters.where(q.Filters)
	enrollments := make([]models.Enrollment, 0)
	if err := selectPage(ctx, r.db, &enrollments, psql.Select(enrollmentColumns).From("enrollments"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}
	total, err := listTotal(ctx, r.db, "enrollments", conds, q, len(enrollments))
	if err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID loads an enrollment.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := getByID(ctx, r.db, &enrollment, "enrollments", enrollmentColumns, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Create inserts an enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	builder := psql.Insert("enrollments").
		Columns("student_id", "course_id", "enrollment_date", "grade", "status").
		Values(enrollment.StudentID, enrollment.CourseID, enrollment.EnrollmentDate, enrollment.Grade, enrollment.Status)
	if err := insertReturning(ctx, r.db, builder, &enrollment.ID, &enrollment.CreatedAt, &enrollment.UpdatedAt); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update modifies an enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	builder := psql.Update("enrollments").SetMap(map[string]interface{}{
		"student_id":      enrollment.StudentID,
		"course_id":       enrollment.CourseID,
		"enrollment_date": enrollment.EnrollmentDate,
		"grade":           enrollment.Grade,
		"status":          enrollment.Status,
	}).Where(squirrel.Eq{"id": enrollment.ID})
	if err := updateReturning(ctx, r.db, builder, &enrollment.UpdatedAt); err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "enrollments", id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}
