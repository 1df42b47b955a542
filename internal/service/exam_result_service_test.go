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

func TestExamResultServiceCreate(t *testing.T) {
	repo := &fakeExamResultRepo{memRows: rowsOf[models.ExamResult](nil)}
	svc := NewExamResultService(repo, schoolRelations(), validation.New(), nil, zap.NewNop())

	detail, err := svc.Create(context.Background(), CreateExamResultRequest{ExamID: 1, StudentID: 2, Score: ptr(87.5), Grade: ptr("B+")})
	require.NoError(t, err)
	assert.NotZero(t, detail.ID)
	require.NotNil(t, detail.Exam)
	require.NotNil(t, detail.Exam.Course)
	assert.Equal(t, "Algorithms", detail.Exam.Course.Name)
	require.NotNil(t, detail.Student)
	assert.Equal(t, "Turing", detail.Student.LastName)
}

func TestExamResultServiceCreateDuplicate(t *testing.T) {
	repo := &fakeExamResultRepo{memRows: rowsOf(map[int64]models.ExamResult{
		3: {ID: 3, ExamID: 1, StudentID: 2},
	})}
	svc := NewExamResultService(repo, schoolRelations(), validation.New(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateExamResultRequest{ExamID: 1, StudentID: 2})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, examResultDuplicateMsg, appErr.Message)
	assert.Zero(t, repo.creates)
}

func TestExamResultServiceRejectsNegativeScore(t *testing.T) {
	repo := &fakeExamResultRepo{memRows: rowsOf[models.ExamResult](nil)}
	svc := NewExamResultService(repo, schoolRelations(), validation.New(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateExamResultRequest{ExamID: 1, StudentID: 1, Score: ptr(-1.0), Grade: ptr("ABCDEF")})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "score")
	assert.Contains(t, appErr.Fields, "grade")
}

func TestExamResultServiceUnknownExam(t *testing.T) {
	repo := &fakeExamResultRepo{memRows: rowsOf[models.ExamResult](nil)}
	svc := NewExamResultService(repo, schoolRelations(), validation.New(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateExamResultRequest{ExamID: 42, StudentID: 1})
	assert.Equal(t, "Exam not found", appErrors.FromError(err).Message)
}
