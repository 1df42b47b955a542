package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const examResultColumns = "id, exam_id, student_id, score, grade, feedback, created_at, updated_at"

var examResultFilters = filterSet{
	"id":         {"id", matchInt},
	"exam_id":    {"exam_id", matchInt},
	"student_id": {"student_id", matchInt},
	"score":      {"score", matchFloat},
	"grade":      {"grade", matchExact},
	"feedback":   {"feedback", matchLike},
}

// ExamResultRepository persists exam results.
type ExamResultRepository struct {
	db *sqlx.DB
}

// NewExamResultRepository constructs an ExamResultRepository.
func NewExamResultRepository(db *sqlx.DB) *ExamResultRepository {
	return &ExamResultRepository{db: db}
}

func (r *ExamResultRepository) List(ctx context.Context, q models.ListQuery) ([]models.ExamResult, int, error) {
	conds := examResultFilters.where(q.Filters)
	results := make([]models.ExamResult, 0)
	if err := selectPage(ctx, r.db, &results, psql.Select(examResultColumns).From("exam_results"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list exam results: %w", err)
	}
	total, err := listTotal(ctx, r.db, "exam_results", conds, q, len(results))
	if err != nil {
		return nil, 0, fmt.Errorf("count exam results: %w", err)
	}
	return results, total, nil
}

func (r *ExamResultRepository) FindByID(ctx context.Context, id int64) (*models.ExamResult, error) {
	var result models.ExamResult
	if err := getByID(ctx, r.db, &result, "exam_results", examResultColumns, id); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByExam returns every result recorded for an exam.
func (r *ExamResultRepository) ListByExam(ctx context.Context, examID int64) ([]models.ExamResult, error) {
	query, args, err := psql.Select(examResultColumns).From("exam_results").
		Where(squirrel.Eq{"exam_id": examID}).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	results := make([]models.ExamResult, 0)
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list results of exam: %w", err)
	}
	return results, nil
}

// Exists reports whether the student already has a result for the exam.
func (r *ExamResultRepository) Exists(ctx context.Context, examID, studentID int64, excludeID int64) (bool, error) {
	found, err := exists(ctx, r.db, "exam_results", squirrel.Eq{"exam_id": examID, "student_id": studentID}, excludeID)
	if err != nil {
		return false, fmt.Errorf("check exam result: %w", err)
	}
	return found, nil
}

func (r *ExamResultRepository) Create(ctx context.Context, result *models.ExamResult) error {
	builder := psql.Insert("exam_results").
		Columns("exam_id", "student_id", "score", "grade", "feedback").
		Values(result.ExamID, result.StudentID, result.Score, result.Grade, result.Feedback)
	if err := insertReturning(ctx, r.db, builder, &result.ID, &result.CreatedAt, &result.UpdatedAt); err != nil {
		return fmt.Errorf("create exam result: %w", err)
	}
	return nil
}

func (r *ExamResultRepository) Update(ctx context.Context, result *models.ExamResult) error {
	builder := psql.Update("exam_results").SetMap(map[string]interface{}{
		"exam_id":    result.ExamID,
		"student_id": result.StudentID,
		"score":      result.Score,
		"grade":      result.Grade,
		"feedback":   result.Feedback,
	}).Where(squirrel.Eq{"id": result.ID})
	if err := updateReturning(ctx, r.db, builder, &result.UpdatedAt); err != nil {
		return fmt.Errorf("update exam result: %w", err)
	}
	return nil
}

func (r *ExamResultRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "exam_results", id); err != nil {
		return fmt.Errorf("delete exam result: %w", err)
	}
	return nil
}
