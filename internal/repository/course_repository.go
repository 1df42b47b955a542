package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const courseColumns = "id, name, code, description, credits, start_date, end_date, department_id, created_at, updated_at"

var courseFilters = filterSet{
	"id":            {"id", matchInt},
	"name":          {"name", matchLike},
	"code":          {"code", matchLike},
	"description":   {"description", matchLike},
	"credits":       {"credits", matchInt},
	"start_date":    {"start_date", matchDate},
	"end_date":      {"end_date", matchDate},
	"department_id": {"department_id", matchInt},
}.withAliases(map[string]string{
	"startDate":    "start_date",
	"endDate":      "end_date",
	"departmentId": "department_id",
})

// CourseRepository persists courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses filtered by query parameters.
func (r *CourseRepository) List(ctx context.Context, q models.ListQuery) ([]models.Course, int, error) {
	conds := courseFilters.where(q.Filters)
	courses := make([]models.Course, 0)
	if err := selectPage(ctx, r.db, &courses, psql.Select(courseColumns).From("courses"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	total, err := listTotal(ctx, r.db, "courses", conds, q, len(courses))
	if err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindByID returns a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	if err := getByID(ctx, r.db, &course, "courses", courseColumns, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDs returns the courses with the given IDs.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []models.Course
	if err := selectByIDs(ctx, r.db, &courses, "courses", courseColumns, ids); err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	return courses, nil
}

// ExistsByCode checks course code uniqueness.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	found, err := exists(ctx, r.db, "courses", squirrel.Eq{"code": code}, excludeID)
	if err != nil {
		return false, fmt.Errorf("check course code: %w", err)
	}
	return found, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	builder := psql.Insert("courses").
		Columns("name", "code", "description", "credits", "start_date", "end_date", "department_id").
		Values(course.Name, course.Code, course.Description, course.Credits, course.StartDate, course.EndDate, course.DepartmentID)
	if err := insertReturning(ctx, r.db, builder, &course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	builder := psql.Update("courses").SetMap(map[string]interface{}{
		"name":          course.Name,
		"code":          course.Code,
		"description":   course.Description,
		"credits":       course.Credits,
		"start_date":    course.StartDate,
		"end_date":      course.EndDate,
		"department_id": course.DepartmentID,
	}).Where(squirrel.Eq{"id": course.ID})
	if err := updateReturning(ctx, r.db, builder, &course.UpdatedAt); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course together with its classes, exams, enrollments and assignments.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "courses", id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// Roster lists the enrolled students of a course ordered by last name.
func (r *CourseRepository) Roster(ctx context.Context, courseID int64) ([]models.RosterEntry, error) {
	const query = `SELECT e.id AS enrollment_id, s.id AS student_id, s.first_name || ' ' || s.last_name AS student_name,
        s.email, e.enrollment_date, COALESCE(e.status, '') AS status, e.grade
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        WHERE e.course_id = $1
        ORDER BY s.last_name, s.first_name, e.id`
	var rows []struct {
		EnrollmentID   int64       `db:"enrollment_id"`
		StudentID      int64       `db:"student_id"`
		StudentName    string      `db:"student_name"`
		Email          string      `db:"email"`
		EnrollmentDate models.Date `db:"enrollment_date"`
		Status         string      `db:"status"`
		Grade          *float64    `db:"grade"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("course roster: %w", err)
	}
	entries := make([]models.RosterEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.RosterEntry(row))
	}
	return entries, nil
}
