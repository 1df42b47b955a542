package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/validation"
)

const (
	examResultResource     = "exam-results"
	examResultEntity       = "Exam result"
	examResultDuplicateMsg = "Exam result already exists for this student and exam"
)

type examResultRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.ExamResult, int, error)
	FindByID(ctx context.Context, id int64) (*models.ExamResult, error)
	Exists(ctx context.Context, examID, studentID int64, excludeID int64) (bool, error)
	Create(ctx context.Context, result *models.ExamResult) error
	Update(ctx context.Context, result *models.ExamResult) error
	Delete(ctx context.Context, id int64) error
}

// CreateExamResultRequest is the payload for grading a student.
type CreateExamResultRequest struct {
	ExamID    int64    `json:"exam_id" validate:"required,gt=0"`
	StudentID int64    `json:"student_id" validate:"required,gt=0"`
	Score     *float64 `json:"score" validate:"omitnil,min=0"`
	Grade     *string  `json:"grade" validate:"omitnil,max=5"`
	Feedback  *string  `json:"feedback"`
}

// UpdateExamResultRequest is the partial update payload for exam results.
type UpdateExamResultRequest struct {
	ExamID    *int64   `json:"exam_id" validate:"omitnil,gt=0"`
	StudentID *int64   `json:"student_id" validate:"omitnil,gt=0"`
	Score     *float64 `json:"score" validate:"omitnil,min=0"`
	Grade     *string  `json:"grade" validate:"omitnil,max=5"`
	Feedback  *string  `json:"feedback"`
}

// ExamResultService manages exam results, one per student and exam.
type ExamResultService struct {
	repo      examResultRepository
	relations Relations
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewExamResultService constructs an ExamResultService. relations must provide
// Exams, Courses and Students.
func NewExamResultService(repo examResultRepository, relations Relations, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *ExamResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamResultService{repo: repo, relations: relations, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns exam results with exam and student.
func (s *ExamResultService) List(ctx context.Context, q models.ListQuery) ([]models.ExamResultDetail, *models.Pagination, error) {
	results, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list exam results")
	}
	details, err := s.withRelations(ctx, results)
	if err != nil {
		return nil, nil, err
	}
	return details, models.NewPagination(q, total), nil
}

// Get returns one exam result.
func (s *ExamResultService) Get(ctx context.Context, id int64) (*models.ExamResultDetail, error) {
	var cached models.ExamResultDetail
	if s.cache.lookupDetail(ctx, examResultResource, id, &cached) {
		return &cached, nil
	}
	result, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, examResultEntity)
	}
	detail, err := s.detail(ctx, result)
	if err != nil {
		return nil, err
	}
	s.cache.storeDetail(ctx, examResultResource, id, detail)
	return detail, nil
}

// Create records a result, rejecting a second result for the same exam and student.
func (s *ExamResultService) Create(ctx context.Context, req CreateExamResultRequest) (*models.ExamResultDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if _, err := s.relations.requireExam(ctx, req.ExamID); err != nil {
		return nil, err
	}
	if _, err := s.relations.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}
	result := &models.ExamResult{
		ExamID:    req.ExamID,
		StudentID: req.StudentID,
		Score:     req.Score,
		Grade:     req.Grade,
		Feedback:  req.Feedback,
	}
	if err := s.ensureUnique(ctx, result, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, result); err != nil {
		return nil, s.persistError(err, "create exam result")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, result)
}

// Update modifies an exam result.
func (s *ExamResultService) Update(ctx context.Context, id int64, req UpdateExamResultRequest) (*models.ExamResultDetail, error) {
	result, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, examResultEntity)
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.ExamID != nil {
		if _, err := s.relations.requireExam(ctx, *req.ExamID); err != nil {
			return nil, err
		}
		result.ExamID = *req.ExamID
	}
	if req.StudentID != nil {
		if _, err := s.relations.requireStudent(ctx, *req.StudentID); err != nil {
			return nil, err
		}
		result.StudentID = *req.StudentID
	}
	if req.Score != nil {
		result.Score = req.Score
	}
	if req.Grade != nil {
		result.Grade = req.Grade
	}
	if req.Feedback != nil {
		result.Feedback = req.Feedback
	}
	if req.ExamID != nil || req.StudentID != nil {
		if err := s.ensureUnique(ctx, result, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, result); err != nil {
		return nil, s.persistError(err, "update exam result")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, result)
}

// Delete removes an exam result.
func (s *ExamResultService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, examResultEntity)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete exam result")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

func (s *ExamResultService) ensureUnique(ctx context.Context, result *models.ExamResult, excludeID int64) error {
	exists, err := s.repo.Exists(ctx, result.ExamID, result.StudentID, excludeID)
	if err != nil {
		return internalError(err, "failed to check exam result")
	}
	if exists {
		return duplicate(examResultDuplicateMsg)
	}
	return nil
}

func (s *ExamResultService) detail(ctx context.Context, result *models.ExamResult) (*models.ExamResultDetail, error) {
	details, err := s.withRelations(ctx, []models.ExamResult{*result})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *ExamResultService) withRelations(ctx context.Context, results []models.ExamResult) ([]models.ExamResultDetail, error) {
	examIDs := make([]int64, 0, len(results))
	studentIDs := make([]int64, 0, len(results))
	for _, r := range results {
		examIDs = append(examIDs, r.ExamID)
		studentIDs = append(studentIDs, r.StudentID)
	}
	exams, err := s.relations.examDetailsByID(ctx, examIDs)
	if err != nil {
		return nil, err
	}
	students, err := s.relations.studentsByID(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	details := make([]models.ExamResultDetail, 0, len(results))
	for _, r := range results {
		details = append(details, models.ExamResultDetail{
			ExamResult: r,
			Exam:       exams[r.ExamID],
			Student:    students[r.StudentID],
		})
	}
	return details, nil
}

func (s *ExamResultService) persistError(err error, action string) error {
	return persistError(err, examResultEntity, action, map[string]error{
		"exam_results_exam_student_key": duplicate(examResultDuplicateMsg),
		"exam_results_exam_id_fkey":     notFound("Exam"),
		"exam_results_student_id_fkey":  notFound("Student"),
	})
}
