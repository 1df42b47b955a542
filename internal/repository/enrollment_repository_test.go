package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-api/internal/models"
)

func TestEnrollmentRepositoryListByGrade(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "enrollment_date", "grade", "status", "created_at", "updated_at"}).
		AddRow(1, 3, 4, now, 88.5, "active", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE (grade = $1 AND status = $2) ORDER BY id ASC")).
		WithArgs(88.5, "active").
		WillReturnRows(rows)

	enrollments, _, err := repo.List(context.Background(), models.ListQuery{Filters: map[string]string{
		"grade":  "88.5",
		"status": "active",
	}})
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	require.NotNil(t, enrollments[0].Grade)
	assert.Equal(t, 88.5, *enrollments[0].Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListCamelCaseFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE (course_id = $1 AND enrollment_date = $2 AND student_id = $3) ORDER BY id ASC")).
		WithArgs(int64(4), "2024-09-01", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(context.Background(), models.ListQuery{Filters: map[string]string{
		"studentId":      "3",
		"courseId":       "4",
		"enrollmentDate": "2024-09-01",
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListCamelCaseFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments WHERE (course_id = $1 AND due_date = $2 AND max_score = $3) ORDER BY id ASC")).
		WithArgs(int64(2), "2024-12-01", 100.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(context.Background(), models.ListQuery{Filters: map[string]string{
		"courseId": "2",
		"dueDate":  "2024-12-01",
		"maxScore": "100",
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListIgnoresUnparsableValues(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + enrollmentColumns + " FROM enrollments ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(context.Background(), models.ListQuery{Filters: map[string]string{
		"grade":           "excellent",
		"enrollment_date": "yesterday",
		"student_id":      "abc",
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateMissingCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "enrollments_course_id_fkey"})

	err := repo.Create(context.Background(), &models.Enrollment{StudentID: 1, CourseID: 99, EnrollmentDate: models.NewDate(time.Now())})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForeignKey)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, "enrollments_course_id_fkey", ConstraintName(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryRoster(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	enrolled := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"enrollment_id", "student_id", "student_name", "email", "enrollment_date", "status", "grade"}).
		AddRow(10, 3, "Ada Lovelace", "ada@example.com", enrolled, "active", nil).
		AddRow(11, 4, "Alan Turing", "alan@example.com", enrolled, "", 91.0)
	mock.ExpectQuery("FROM enrollments e\\s+JOIN students s ON s.id = e.student_id\\s+WHERE e.course_id = \\$1").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	entries, err := repo.Roster(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ada Lovelace", entries[0].StudentName)
	assert.Equal(t, "2024-09-02", entries[0].EnrollmentDate.String())
	assert.Nil(t, entries[0].Grade)
	require.NotNil(t, entries[1].Grade)
	assert.Equal(t, 91.0, *entries[1].Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}
