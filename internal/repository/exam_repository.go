package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const examColumns = "id, course_id, date, duration, location, type, created_at, updated_at"

var examFilters = filterSet{
	"id":        {"id", matchInt},
	"course_id": {"course_id", matchInt},
	"date":      {"date", matchDate},
	"duration":  {"duration", matchLike},
	"location":  {"location", matchLike},
	"type":      {"type", matchExact},
}

// ExamRepository persists exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

func (r *ExamRepository) List(ctx context.Context, q models.ListQuery) ([]models.Exam, int, error) {
	conds := examFilters.where(q.Filters)
	exams := make([]models.Exam, 0)
	if err := selectPage(ctx, r.db, &exams, psql.Select(examColumns).From("exams"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list exams: %w", err)
	}
	total, err := listTotal(ctx, r.db, "exams", conds, q, len(exams))
	if err != nil {
		return nil, 0, fmt.Errorf("count exams: %w", err)
	}
	return exams, total, nil
}

func (r *ExamRepository) FindByID(ctx context.Context, id int64) (*models.Exam, error) {
	var exam models.Exam
	if err := getByID(ctx, r.db, &exam, "exams", examColumns, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Exam, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var exams []models.Exam
	if err := selectByIDs(ctx, r.db, &exams, "exams", examColumns, ids); err != nil {
		return nil, fmt.Errorf("find exams: %w", err)
	}
	return exams, nil
}

func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	builder := psql.Insert("exams").
		Columns("course_id", "date", "duration", "location", "type").
		Values(exam.CourseID, exam.Date, exam.Duration, exam.Location, exam.Type)
	if err := insertReturning(ctx, r.db, builder, &exam.ID, &exam.CreatedAt, &exam.UpdatedAt); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	builder := psql.Update("exams").SetMap(map[string]interface{}{
		"course_id": exam.CourseID,
		"date":      exam.Date,
		"duration":  exam.Duration,
		"location":  exam.Location,
		"type":      exam.Type,
	}).Where(squirrel.Eq{"id": exam.ID})
	if err := updateReturning(ctx, r.db, builder, &exam.UpdatedAt); err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	return nil
}

func (r *ExamRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "exams", id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}
