package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

func schoolRelations() Relations {
	return Relations{
		Students: rowsOf(map[int64]models.Student{
			1: {ID: 1, FirstName: "Ada", LastName: "Lovelace"},
			2: {ID: 2, FirstName: "Alan", LastName: "Turing"},
		}),
		Teachers: rowsOf(map[int64]models.Teacher{
			1: {ID: 1, FirstName: "Grace", LastName: "Hopper"},
		}),
		Departments: rowsOf(map[int64]models.Department{
			1: {ID: 1, Name: "Computing", Code: "CS"},
		}),
		Courses: rowsOf(map[int64]models.Course{
			1: {ID: 1, Name: "Algorithms", Code: "CS101", Credits: 3},
		}),
		Classes: rowsOf(map[int64]models.Class{
			1: {ID: 1, CourseID: 1, TeacherID: 1, MaxStudents: 30},
		}),
		Exams: rowsOf(map[int64]models.Exam{
			1: {ID: 1, CourseID: 1, Date: date("2024-12-01"), Type: models.ExamType("final")},
		}),
	}
}

func newAttendanceService(repo *fakeAttendanceRepo) *AttendanceService {
	return NewAttendanceService(repo, schoolRelations(), validation.New(), nil, zap.NewNop())
}

func TestAttendanceServiceCreate(t *testing.T) {
	repo := &fakeAttendanceRepo{memRows: rowsOf[models.Attendance](nil)}
	svc := newAttendanceService(repo)

	detail, err := svc.Create(context.Background(), CreateAttendanceRequest{StudentID: 1, ClassID: 1, Date: "2024-10-01", Status: "present"})
	require.NoError(t, err)
	assert.NotZero(t, detail.ID)
	require.NotNil(t, detail.Student)
	assert.Equal(t, "Ada", detail.Student.FirstName)
	require.NotNil(t, detail.Class)
	require.NotNil(t, detail.Class.Course)
	assert.Equal(t, "CS101", detail.Class.Course.Code)
	require.NotNil(t, detail.Class.Teacher)
	assert.Equal(t, "Hopper", detail.Class.Teacher.LastName)
}

func TestAttendanceServiceCreateDuplicate(t *testing.T) {
	repo := &fakeAttendanceRepo{memRows: rowsOf(map[int64]models.Attendance{
		5: {ID: 5, StudentID: 1, ClassID: 1, Date: date("2024-10-01"), Status: "present"},
	})}
	svc := newAttendanceService(repo)

	_, err := svc.Create(context.Background(), CreateAttendanceRequest{StudentID: 1, ClassID: 1, Date: "2024-10-01", Status: "late"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, attendanceDuplicateMsg, appErr.Message)
	assert.Zero(t, repo.creates)
}

func TestAttendanceServiceCreateValidation(t *testing.T) {
	repo := &fakeAttendanceRepo{memRows: rowsOf[models.Attendance](nil)}
	svc := newAttendanceService(repo)

	_, err := svc.Create(context.Background(), CreateAttendanceRequest{StudentID: 1, ClassID: 1, Date: "2024-10-01", Status: "sleeping"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Contains(t, appErr.Fields, "status")
	assert.Zero(t, repo.creates)
}

func TestAttendanceServiceCreateUnknownStudent(t *testing.T) {
	repo := &fakeAttendanceRepo{memRows: rowsOf[models.Attendance](nil)}
	svc := newAttendanceService(repo)

	_, err := svc.Create(context.Background(), CreateAttendanceRequest{StudentID: 77, ClassID: 1, Date: "2024-10-01", Status: "present"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Student not found", appErr.Message)
}

func TestAttendanceServiceUpdate(t *testing.T) {
	repo := &fakeAttendanceRepo{memRows: rowsOf(map[int64]models.Attendance{
		5: {ID: 5, StudentID: 1, ClassID: 1, Date: date("2024-10-01"), Status: "present"},
		6: {ID: 6, StudentID: 2, ClassID: 1, Date: date("2024-10-01"), Status: "present"},
	})}
	svc := newAttendanceService(repo)

	detail, err := svc.Update(context.Background(), 5, UpdateAttendanceRequest{Status: ptr("excused"), Remark: ptr("doctor")})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatus("excused"), detail.Status)
	assert.Zero(t, repo.existsCalls)

	_, err = svc.Update(context.Background(), 5, UpdateAttendanceRequest{StudentID: ptr(int64(2))})
	require.Error(t, err)
	assert.Equal(t, attendanceDuplicateMsg, appErrors.FromError(err).Message)

	_, err = svc.Update(context.Background(), 99, UpdateAttendanceRequest{})
	assert.Equal(t, "Attendance record not found", appErrors.FromError(err).Message)
}
