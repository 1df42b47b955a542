package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

func newExportFixture() *ExportService {
	repo := &fakeCourseRepo{
		memRows: rowsOf(map[int64]models.Course{1: {ID: 1, Name: "Algorithms", Code: "CS101", Credits: 3}}),
		roster: map[int64][]models.RosterEntry{1: {
			{EnrollmentID: 10, StudentID: 1, StudentName: "Ada Lovelace", Email: "ada@example.com", EnrollmentDate: date("2024-09-01"), Status: "active", Grade: ptr(91.5)},
			{EnrollmentID: 11, StudentID: 2, StudentName: "Alan Turing", Email: "alan@example.com", EnrollmentDate: date("2024-09-02")},
		}},
	}
	courses := NewCourseService(repo, schoolRelations(), nil, nil, zap.NewNop())
	return NewExportService(courses, zap.NewNop())
}

func TestExportServiceCourseRosterCSV(t *testing.T) {
	svc := newExportFixture()

	file, err := svc.CourseRoster(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "roster-CS101.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Enrollment,Student ID,Name,Email,Enrolled On,Status,Grade", lines[0])
	assert.Equal(t, "10,1,Ada Lovelace,ada@example.com,2024-09-01,active,91.50", lines[1])
	assert.Equal(t, "11,2,Alan Turing,alan@example.com,2024-09-02,,", lines[2])
}

func TestExportServiceCourseRosterPDF(t *testing.T) {
	svc := newExportFixture()

	file, err := svc.CourseRoster(context.Background(), 1, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "roster-CS101.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF-"))
}

func TestExportServiceCourseRosterErrors(t *testing.T) {
	svc := newExportFixture()

	_, err := svc.CourseRoster(context.Background(), 1, "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Contains(t, appErr.Fields, "format")

	_, err = svc.CourseRoster(context.Background(), 99, "csv")
	require.Error(t, err)
	assert.Equal(t, "Course not found", appErrors.FromError(err).Message)
}
