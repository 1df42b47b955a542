package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-api/internal/models"
)

var studentRowColumns = []string{"id", "first_name", "last_name", "email", "birth_date", "enrollment_date", "address", "phone", "created_at", "updated_at"}

func TestStudentRepositoryListUnpaginated(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(studentRowColumns).
		AddRow(1, "Ada", "Lovelace", "ada@example.com", nil, now, nil, nil, now, now).
		AddRow(2, "Alan", "Turing", "alan@example.com", now, now, "Street", "123", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + studentColumns + " FROM students ORDER BY id ASC")).
		WillReturnRows(rows)

	students, total, err := repo.List(context.Background(), models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 2, total)
	assert.Nil(t, students[0].BirthDate)
	require.NotNil(t, students[1].Phone)
	assert.Equal(t, "123", *students[1].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListPaginatedWithFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + studentColumns + " FROM students WHERE (last_name ILIKE $1) ORDER BY id ASC LIMIT 10 OFFSET 10")).
		WithArgs("%tur%").
		WillReturnRows(sqlmock.NewRows(studentRowColumns).AddRow(11, "Alan", "Turing", "alan@example.com", nil, now, nil, nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE (last_name ILIKE $1)")).
		WithArgs("%tur%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	q := models.ListQuery{Filters: map[string]string{"last_name": "tur", "unknown": "x"}, Page: 2, PerPage: 10, Paginated: true}
	students, total, err := repo.List(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(studentRowColumns))

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO students \\(first_name,last_name,email,birth_date,enrollment_date,address,phone\\) VALUES .* RETURNING id, created_at, updated_at").
		WithArgs("Ada", "Lovelace", "ada@example.com", nil, "2024-09-01", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	enrolled, err := models.ParseDate("2024-09-01")
	require.NoError(t, err)
	student := &models.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", EnrollmentDate: enrolled}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(7), student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_email_key"})

	err := repo.Create(context.Background(), &models.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, "students_email_key", ConstraintName(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("UPDATE students SET .* updated_at = NOW\\(\\) WHERE id = \\$8 RETURNING updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.Update(context.Background(), &models.Student{ID: 9, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
