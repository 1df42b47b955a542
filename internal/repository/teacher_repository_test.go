package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-api/internal/models"
)

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "department", "hire_date", "created_at", "updated_at"}).
		AddRow(1, "Grace", "Hopper", "grace@example.com", nil, "Computing", now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + teacherColumns + " FROM teachers WHERE (department ILIKE $1 AND hire_date = $2) ORDER BY id ASC")).
		WithArgs("%comp%", "2020-01-15").
		WillReturnRows(rows)

	teachers, total, err := repo.List(context.Background(), models.ListQuery{Filters: map[string]string{
		"department": "comp",
		"hire_date":  "2020-01-15",
	}})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Grace", teachers[0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM teachers WHERE email = $1 AND id <> $2 LIMIT 1")).
		WithArgs("grace@example.com", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM teachers WHERE email = $1 LIMIT 1")).
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	found, err := repo.ExistsByEmail(context.Background(), "grace@example.com", 4)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.ExistsByEmail(context.Background(), "new@example.com", 0)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByIDsEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	teachers, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, teachers)
	assert.NoError(t, mock.ExpectationsWereMet())
}
