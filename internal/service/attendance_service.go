package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/validation"
)

const (
	attendanceResource     = "attendances"
	attendanceEntity       = "Attendance record"
	attendanceDuplicateMsg = "Attendance record already exists for this student, class, and date"
)

type attendanceRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Attendance, int, error)
	FindByID(ctx context.Context, id int64) (*models.Attendance, error)
	Exists(ctx context.Context, studentID, classID int64, date models.Date, excludeID int64) (bool, error)
	Create(ctx context.Context, record *models.Attendance) error
	Update(ctx context.Context, record *models.Attendance) error
	Delete(ctx context.Context, id int64) error
}

// CreateAttendanceRequest is the payload for recording attendance.
type CreateAttendanceRequest struct {
	StudentID int64   `json:"student_id" validate:"required,gt=0"`
	ClassID   int64   `json:"class_id" validate:"required,gt=0"`
	Date      string  `json:"date" validate:"required,date"`
	Status    string  `json:"status" validate:"required,oneof=present absent late excused"`
	Remark    *string `json:"remark"`
}

// UpdateAttendanceRequest is the partial update payload for attendance.
type UpdateAttendanceRequest struct {
	StudentID *int64  `json:"student_id" validate:"omitnil,gt=0"`
	ClassID   *int64  `json:"class_id" validate:"omitnil,gt=0"`
	Date      *string `json:"date" validate:"omitnil,date"`
	Status    *string `json:"status" validate:"omitnil,oneof=present absent late excused"`
	Remark    *string `json:"remark"`
}

// AttendanceService records per class attendance.
type AttendanceService struct {
	repo      attendanceRepository
	relations Relations
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService. relations must provide
// Students, Classes, Courses and Teachers.
func NewAttendanceService(repo attendanceRepository, relations Relations, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, relations: relations, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns attendance records with student and class.
func (s *AttendanceService) List(ctx context.Context, q models.ListQuery) ([]models.AttendanceDetail, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list attendance records")
	}
	details, err := s.withRelations(ctx, records)
	if err != nil {
		return nil, nil, err
	}
	return details, models.NewPagination(q, total), nil
}

// Get returns one attendance record.
func (s *AttendanceService) Get(ctx context.Context, id int64) (*models.AttendanceDetail, error) {
	var cached models.AttendanceDetail
	if s.cache.lookupDetail(ctx, attendanceResource, id, &cached) {
		return &cached, nil
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, attendanceEntity)
	}
	detail, err := s.detail(ctx, record)
	if err != nil {
		return nil, err
	}
	s.cache.storeDetail(ctx, attendanceResource, id, detail)
	return detail, nil
}

// Create records attendance, rejecting a second record for the same student, class and date.
func (s *AttendanceService) Create(ctx context.Context, req CreateAttendanceRequest) (*models.AttendanceDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	record := &models.Attendance{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      mustDate(req.Date),
		Status:    models.AttendanceStatus(req.Status),
		Remark:    req.Remark,
	}
	if _, err := s.relations.requireStudent(ctx, record.StudentID); err != nil {
		return nil, err
	}
	if _, err := s.relations.requireClass(ctx, record.ClassID); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, record, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, s.persistError(err, "create attendance record")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, record)
}

// Update modifies an attendance record.
func (s *AttendanceService) Update(ctx context.Context, id int64, req UpdateAttendanceRequest) (*models.AttendanceDetail, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, attendanceEntity)
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.StudentID != nil {
		if _, err := s.relations.requireStudent(ctx, *req.StudentID); err != nil {
			return nil, err
		}
		record.StudentID = *req.StudentID
	}
	if req.ClassID != nil {
		if _, err := s.relations.requireClass(ctx, *req.ClassID); err != nil {
			return nil, err
		}
		record.ClassID = *req.ClassID
	}
	if req.Date != nil {
		record.Date = mustDate(*req.Date)
	}
	if req.Status != nil {
		record.Status = models.AttendanceStatus(*req.Status)
	}
	if req.Remark != nil {
		record.Remark = req.Remark
	}
	if req.StudentID != nil || req.ClassID != nil || req.Date != nil {
		if err := s.ensureUnique(ctx, record, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, s.persistError(err, "update attendance record")
	}
	s.cache.invalidateDetails(ctx)
	return s.detail(ctx, record)
}

// Delete removes an attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, attendanceEntity)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete attendance record")
	}
	s.cache.invalidateDetails(ctx)
	return nil
}

func (s *AttendanceService) ensureUnique(ctx context.Context, record *models.Attendance, excludeID int64) error {
	exists, err := s.repo.Exists(ctx, record.StudentID, record.ClassID, record.Date, excludeID)
	if err != nil {
		return internalError(err, "failed to check attendance record")
	}
	if exists {
		return duplicate(attendanceDuplicateMsg)
	}
	return nil
}

func (s *AttendanceService) detail(ctx context.Context, record *models.Attendance) (*models.AttendanceDetail, error) {
	details, err := s.withRelations(ctx, []models.Attendance{*record})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *AttendanceService) withRelations(ctx context.Context, records []models.Attendance) ([]models.AttendanceDetail, error) {
	studentIDs := make([]int64, 0, len(records))
	classIDs := make([]int64, 0, len(records))
	for _, r := range records {
		studentIDs = append(studentIDs, r.StudentID)
		classIDs = append(classIDs, r.ClassID)
	}
	students, err := s.relations.studentsByID(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	classes, err := s.relations.classDetailsByID(ctx, classIDs)
	if err != nil {
		return nil, err
	}
	details := make([]models.AttendanceDetail, 0, len(records))
	for _, r := range records {
		details = append(details, models.AttendanceDetail{
			Attendance: r,
			Student:    students[r.StudentID],
			Class:      classes[r.ClassID],
		})
	}
	return details, nil
}

func (s *AttendanceService) persistError(err error, action string) error {
	return persistError(err, attendanceEntity, action, map[string]error{
		"attendances_student_class_date_key": duplicate(attendanceDuplicateMsg),
		"attendances_student_id_fkey":        notFound("Student"),
		"attendances_class_id_fkey":          notFound("Class"),
	})
}
