package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const studentColumns = "id, first_name, last_name, email, birth_date, enrollment_date, address, phone, created_at, updated_at"

var studentFilters = filterSet{
	"id":              {"id", matchInt},
	"first_name":      {"first_name", matchLike},
	"last_name":       {"last_name", matchLike},
	"email":           {"email", matchLike},
	"birth_date":      {"birth_date", matchDate},
	"enrollment_date": {"enrollment_date", matchDate},
	"address":         {"address", matchLike},
	"phone":           {"phone", matchLike},
}.withAliases(map[string]string{
	"firstName":      "first_name",
	"lastName":       "last_name",
	"birthDate":      "birth_date",
	"enrollmentDate": "enrollment_date",
})

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, q models.ListQuery) ([]models.Student, int, error) {
	conds := studentFilters.where(q.Filters)
	students := make([]models.Student, 0)
	if err := selectPage(ctx, r.db, &students, psql.Select(studentColumns).From("students"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	total, err := listTotal(ctx, r.db, "students", conds, q, len(students))
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	if err := getByID(ctx, r.db, &student, "students", studentColumns, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByIDs fetches the students with the given IDs.
func (r *StudentRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var students []models.Student
	if err := selectByIDs(ctx, r.db, &students, "students", studentColumns, ids); err != nil {
		return nil, fmt.Errorf("find students: %w", err)
	}
	return students, nil
}

// ExistsByEmail checks if a student with given email exists optionally excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	found, err := exists(ctx, r.db, "students", squirrel.Eq{"email": email}, excludeID)
	if err != nil {
		return false, fmt.Errorf("check student email: %w", err)
	}
	return found, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	builder := psql.Insert("students").
		Columns("first_name", "last_name", "email", "birth_date", "enrollment_date", "address", "phone").
		Values(student.FirstName, student.LastName, student.Email, student.BirthDate, student.EnrollmentDate, student.Address, student.Phone)
	if err := insertReturning(ctx, r.db, builder, &student.ID, &student.CreatedAt, &student.UpdatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	builder := psql.Update("students").SetMap(map[string]interface{}{
		"first_name":      student.FirstName,
		"last_name":       student.LastName,
		"email":           student.Email,
		"birth_date":      student.BirthDate,
		"enrollment_date": student.EnrollmentDate,
		"address":         student.Address,
		"phone":           student.Phone,
	}).Where(squirrel.Eq{"id": student.ID})
	if err := updateReturning(ctx, r.db, builder, &student.UpdatedAt); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student and, by cascade, its attendances, results and enrollments.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "students", id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
