package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const attendanceColumns = "id, student_id, class_id, date, status, remark, created_at, updated_at"

var attendanceFilters = filterSet{
	"id":         {"id", matchInt},
	"student_id": {"student_id", matchInt},
	"class_id":   {"class_id", matchInt},
	"date":       {"date", matchDate},
	"status":     {"status", matchExact},
	"remark":     {"remark", matchLike},
}

// AttendanceRepository persists attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance rows matching the filters.
func (r *AttendanceRepository) List(ctx context.Context, q models.ListQuery) ([]models.Attendance, int, error) {
	conds := attendanceFilters.where(q.Filters)
	records := make([]models.Attendance, 0)
	if err := selectPage(ctx, r.db, &records, psql.Select(attendanceColumns).From("attendances"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list attendances: %w", err)
	}
	total, err := listTotal(ctx, r.db, "attendances", conds, q, len(records))
	if err != nil {
		return nil, 0, fmt.Errorf("count attendances: %w", err)
	}
	return records, total, nil
}

// FindByID loads a single attendance record.
func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*models.Attendance, error) {
	var record models.Attendance
	if err := getByID(ctx, r.db, &record, "attendances", attendanceColumns, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Exists reports whether the student already has an attendance row for the class on date.
func (r *AttendanceRepository) Exists(ctx context.Context, studentID, classID int64, date models.Date, excludeID int64) (bool, error) {
	cond := squirrel.Eq{"student_id": studentID, "class_id": classID, "date": date.String()}
	found, err := exists(ctx, r.db, "attendances", cond, excludeID)
	if err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return found, nil
}

// Create inserts an attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	builder := psql.Insert("attendances").
		Columns("student_id", "class_id", "date", "status", "remark").
		Values(record.StudentID, record.ClassID, record.Date, record.Status, record.Remark)
	if err := insertReturning(ctx, r.db, builder, &record.ID, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Update modifies an attendance record.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.Attendance) error {
	builder := psql.Update("attendances").SetMap(map[string]interface{}{
		"student_id": record.StudentID,
		"class_id":   record.ClassID,
		"date":       record.Date,
		"status":     record.Status,
		"remark":     record.Remark,
	}).Where(squirrel.Eq{"id": record.ID})
	if err := updateReturning(ctx, r.db, builder, &record.UpdatedAt); err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "attendances", id); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}
