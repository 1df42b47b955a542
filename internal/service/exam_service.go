package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/validation"
)

const examResource = "exams"

type examRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Exam, int, error)
	FindByID(ctx context.Context, id int64) (*models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id int64) error
}

type examResultLister interface {
	ListByExam(ctx context.Context, examID int64) ([]models.ExamResult, error)
}

// CreateExamRequest is the payload for scheduling an exam.
type CreateExamRequest struct {
	CourseID int64   `json:"course_id" validate:"required,gt=0"`
	Date     string  `json:"date" validate:"required,date"`
	Duration *string `json:"duration" validate:"omitempty,max=50"`
	Location *string `json:"location" validate:"omitempty,max=255"`
	Type     string  `json:"type" validate:"required,oneof=midterm final quiz assignment"`
}

// UpdateExamRequest is the partial update payload for exams.
type UpdateExamRequest struct {
	CourseID *int64  `json:"course_id" validate:"omitnil,gt=0"`
	Date     *string `json:"date" validate:"omitnil,date"`
	Duration *string `json:"duration" validate:"omitnil,max=50"`
	Location *string `json:"location" validate:"omitnil,max=255"`
	Type     *string `json:"type" validate:"omitnil,oneof=midterm final quiz assignment"`
}

// ExamService manages exams. Get additionally loads the exam results.
type ExamService struct {
	repo      examRepository
	results   examResultLister
	relations Relations
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewExamService constructs an ExamService. relations must provide Courses and Students.
func NewExamService(repo examRepository, results examResultLister, relations Relations, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *ExamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, results: results, relations: relations, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns exams with their course.
func (s *ExamService) List(ctx context.Context, q models.ListQuery) ([]models.ExamDetail, *models.Pagination, error) {
	exams, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list exams")
	}
	details, err := s.withCourses(ctx, exams)
	if err != nil {
		return nil, nil, err
	}
	return details, models.NewPagination(q, total), nil
}

// Get returns an exam with its course and every result with its student.
func (s *ExamService) Get(ctx context.Context, id int64) (*models.ExamDetail, error) {
	var cached models.ExamDetail
	if s.cache.lookupDetail(ctx, examResource, id, &cached) {
		return &cached, nil
	}
	exam, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Exam")
	}
	detail, err := s.detail(ctx, exam)
	if err != nil {
		return nil, err
	}
	results, err := s.results.ListByExam(ctx, id)
	if err != nil {
		return nil, internalError(err, "failed to load exam results")
	}
	studentIDs := make([]int64, 0, len(results))
	for _, r := range results {
		studentIDs = append(studentIDs, r.StudentID)
	}
	students, err := s.relations.studentsByID(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	detail.Results = make([]models.ExamResultSummary, 0, len(results))
	for _, r := range results {
		detail.Results = append(detail.Results, models.ExamResultSummary{ExamResult: r, Student: students[r.StudentID]})
	}
	s.cache.storeDetail(ctx, examResource, id, detail)
	return detail, nil
}

// Create schedules an exam.
func (s *ExamService) Create(ctx context.Context, req CreateExamRequest) (*models.ExamDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if _, err := s.relations.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}
	exam := &models.Exam{
		CourseID: req.CourseID,
		Date:     mustDate(req.Date),
		Duration: req.Duration,
		Location: req.Location,
		Type:     models.ExamType(req.Type),
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, s.persistError(err, "create exam")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, exam)
}

// Update modifies an exam.
func (s *ExamService) Update(ctx context.Context, id int64, req UpdateExamRequest) (*models.ExamDetail, error) {
	exam, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Exam")
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.CourseID != nil {
		if _, err := s.relations.requireCourse(ctx, *req.CourseID); err != nil {
			return nil, err
		}
		exam.CourseID = *req.CourseID
	}
	if req.Date != nil {
		exam.Date = mustDate(*req.Date)
	}
	if req.Duration != nil {
		exam.Duration = req.Duration
	}
	if req.Location != nil {
		exam.Location = req.Location
	}
	if req.Type != nil {
		exam.Type = models.ExamType(*req.Type)
	}
	if err := s.repo.Update(ctx, exam); err != nil {
		return nil, s.persistError(err, "update exam")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, exam)
}

// Delete removes an exam and its results.
func (s *ExamService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "Exam")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete exam")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

func (s *ExamService) detail(ctx context.Context, exam *models.Exam) (*models.ExamDetail, error) {
	details, err := s.withCourses(ctx, []models.Exam{*exam})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *ExamService) withCourses(ctx context.Context, exams []models.Exam) ([]models.ExamDetail, error) {
	ids := make([]int64, 0, len(exams))
	for _, e := range exams {
		ids = append(ids, e.CourseID)
	}
	courses, err := s.relations.coursesByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	details := make([]models.ExamDetail, 0, len(exams))
	for _, e := range exams {
		details = append(details, models.ExamDetail{Exam: e, Course: courses[e.CourseID]})
	}
	return details, nil
}

func (s *ExamService) persistError(err error, action string) error {
	return persistError(err, "Exam", action, map[string]error{
		"exams_course_id_fkey": notFound("Course"),
	})
}
