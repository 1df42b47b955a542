package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/repository"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

func newStudentService(repo *fakeStudentRepo) *StudentService {
	return NewStudentService(repo, validation.New(), nil, zap.NewNop())
}

func TestStudentServiceCreate(t *testing.T) {
	repo := newFakeStudentRepo(nil)
	svc := newStudentService(repo)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          " ada@example.com ",
		BirthDate:      ptr("2010-12-10"),
		EnrollmentDate: "2024-09-01",
	})
	require.NoError(t, err)
	assert.NotZero(t, student.ID)
	assert.Equal(t, "ada@example.com", student.Email)
	require.NotNil(t, student.BirthDate)
	assert.Equal(t, "2010-12-10", student.BirthDate.String())
	assert.Equal(t, "2024-09-01", student.EnrollmentDate.String())
	assert.Len(t, repo.rows, 1)
}

func TestStudentServiceCreateMissingFields(t *testing.T) {
	repo := newFakeStudentRepo(nil)
	svc := newStudentService(repo)

	_, err := svc.Create(context.Background(), CreateStudentRequest{FirstName: "Ada", Email: "not-an-email", EnrollmentDate: "01/09/2024"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, []string{"The last_name field is required."}, appErr.Fields["last_name"])
	assert.Contains(t, appErr.Fields, "email")
	assert.Equal(t, []string{"enrollment_date is not a valid date (YYYY-MM-DD)"}, appErr.Fields["enrollment_date"])
	assert.Zero(t, repo.creates)
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	repo := newFakeStudentRepo(map[int64]models.Student{1: {ID: 1, Email: "ada@example.com"}})
	svc := newStudentService(repo)

	_, err := svc.Create(context.Background(), CreateStudentRequest{FirstName: "A", LastName: "B", Email: "ada@example.com", EnrollmentDate: "2024-09-01"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, []string{"The email has already been taken."}, appErr.Fields["email"])
	assert.Zero(t, repo.creates)
}

func TestStudentServiceCreateLosesUniqueRace(t *testing.T) {
	repo := newFakeStudentRepo(nil)
	repo.createErr = &repository.ConstraintError{Kind: repository.ErrDuplicate, Constraint: "students_email_key"}
	svc := newStudentService(repo)

	_, err := svc.Create(context.Background(), CreateStudentRequest{FirstName: "A", LastName: "B", Email: "ada@example.com", EnrollmentDate: "2024-09-01"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Contains(t, appErr.Fields, "email")
}

func TestStudentServiceUpdatePartial(t *testing.T) {
	repo := newFakeStudentRepo(map[int64]models.Student{
		1: {ID: 1, FirstName: "Ada", LastName: "Byron", Email: "ada@example.com", EnrollmentDate: date("2024-09-01"), Phone: ptr("123")},
	})
	svc := newStudentService(repo)

	updated, err := svc.Update(context.Background(), 1, UpdateStudentRequest{LastName: ptr("Lovelace")})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "ada@example.com", updated.Email)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "123", *updated.Phone)
}

func TestStudentServiceUpdateKeepsOwnEmail(t *testing.T) {
	repo := newFakeStudentRepo(map[int64]models.Student{1: {ID: 1, FirstName: "Ada", LastName: "L", Email: "ada@example.com"}})
	svc := newStudentService(repo)

	_, err := svc.Update(context.Background(), 1, UpdateStudentRequest{Email: ptr("ada@example.com")})
	assert.NoError(t, err)
}

func TestStudentServiceNotFound(t *testing.T) {
	repo := newFakeStudentRepo(nil)
	svc := newStudentService(repo)

	_, err := svc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "Student not found", appErrors.FromError(err).Message)

	_, err = svc.Update(context.Background(), 9, UpdateStudentRequest{FirstName: ptr("")})
	assert.Equal(t, "Student not found", appErrors.FromError(err).Message)
	assert.Zero(t, repo.updates)

	err = svc.Delete(context.Background(), 9)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestStudentServiceListPagination(t *testing.T) {
	rows := make(map[int64]models.Student, 25)
	for i := int64(1); i <= 25; i++ {
		rows[i] = models.Student{ID: i}
	}
	svc := newStudentService(newFakeStudentRepo(rows))

	students, pagination, err := svc.List(context.Background(), models.ListQuery{Page: 2, PerPage: 10, Paginated: true})
	require.NoError(t, err)
	assert.Len(t, students, 10)
	assert.Equal(t, int64(11), students[0].ID)
	assert.Equal(t, &models.Pagination{CurrentPage: 2, ItemsPerPage: 10, TotalItems: 25, TotalPages: 3}, pagination)

	students, pagination, err = svc.List(context.Background(), models.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, students, 25)
	assert.Nil(t, pagination)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := newFakeStudentRepo(map[int64]models.Student{1: {ID: 1}})
	svc := newStudentService(repo)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, repo.rows)
}
