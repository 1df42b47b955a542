package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-api/internal/models"
)

func TestClassRepositoryExistsSlot(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	room, schedule := "B12", "Mon 09:00"
	mock.ExpectQuery(`SELECT 1 FROM classes WHERE course_id = \$1 AND room = \$2 AND schedule = \$3 AND teacher_id = \$4 LIMIT 1`).
		WithArgs(int64(1), room, schedule, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	found, err := repo.ExistsSlot(context.Background(), &models.Class{CourseID: 1, TeacherID: 2, Room: &room, Schedule: &schedule}, 0)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryExistsSlotWithoutRoomOrSchedule(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	room := "B12"
	for _, class := range []*models.Class{
		{CourseID: 1, TeacherID: 2},
		{CourseID: 1, TeacherID: 2, Room: &room},
	} {
		found, err := repo.ExistsSlot(context.Background(), class, 0)
		require.NoError(t, err)
		assert.False(t, found)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
