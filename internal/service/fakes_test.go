package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/noah-isme/school-api/internal/models"
)

// memRows is an in-memory table keyed by id, usable as any of the relation readers.
type memRows[T any] struct {
	rows map[int64]T
}

func rowsOf[T any](rows map[int64]T) *memRows[T] {
	if rows == nil {
		rows = make(map[int64]T)
	}
	return &memRows[T]{rows: rows}
}

func (m *memRows[T]) FindByID(_ context.Context, id int64) (*T, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (m *memRows[T]) FindByIDs(_ context.Context, ids []int64) ([]T, error) {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if row, ok := m.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// page applies the list window of q over rows sorted by id.
func page[T any](rows map[int64]T, q models.ListQuery) ([]T, int) {
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, rows[id])
	}
	if !q.Paginated {
		return out, len(out)
	}
	start := q.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + q.PerPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], len(out)
}

type fakeStudentRepo struct {
	*memRows[models.Student]
	nextID    int64
	createErr error
	creates   int
	updates   int
}

func newFakeStudentRepo(rows map[int64]models.Student) *fakeStudentRepo {
	return &fakeStudentRepo{memRows: rowsOf(rows), nextID: 100}
}

func (f *fakeStudentRepo) List(_ context.Context, q models.ListQuery) ([]models.Student, int, error) {
	rows, total := page(f.rows, q)
	return rows, total, nil
}

func (f *fakeStudentRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	for id, s := range f.rows {
		if s.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	student.ID = f.nextID
	f.rows[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	f.updates++
	if _, ok := f.rows[student.ID]; !ok {
		return sql.ErrNoRows
	}
	f.rows[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

type fakeAttendanceRepo struct {
	*memRows[models.Attendance]
	nextID      int64
	existsCalls int
	creates     int
}

func (f *fakeAttendanceRepo) List(_ context.Context, q models.ListQuery) ([]models.Attendance, int, error) {
	rows, total := page(f.rows, q)
	return rows, total, nil
}

func (f *fakeAttendanceRepo) Exists(_ context.Context, studentID, classID int64, date models.Date, excludeID int64) (bool, error) {
	f.existsCalls++
	for id, r := range f.rows {
		if id != excludeID && r.StudentID == studentID && r.ClassID == classID && r.Date.Equal(date.Time) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendanceRepo) Create(_ context.Context, record *models.Attendance) error {
	f.creates++
	f.nextID++
	record.ID = f.nextID
	f.rows[record.ID] = *record
	return nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, record *models.Attendance) error {
	f.rows[record.ID] = *record
	return nil
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

type fakeExamResultRepo struct {
	*memRows[models.ExamResult]
	nextID  int64
	creates int
}

func (f *fakeExamResultRepo) List(_ context.Context, q models.ListQuery) ([]models.ExamResult, int, error) {
	rows, total := page(f.rows, q)
	return rows, total, nil
}

func (f *fakeExamResultRepo) Exists(_ context.Context, examID, studentID int64, excludeID int64) (bool, error) {
	for id, r := range f.rows {
		if id != excludeID && r.ExamID == examID && r.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeExamResultRepo) Create(_ context.Context, result *models.ExamResult) error {
	f.creates++
	f.nextID++
	result.ID = f.nextID
	f.rows[result.ID] = *result
	return nil
}

func (f *fakeExamResultRepo) Update(_ context.Context, result *models.ExamResult) error {
	f.rows[result.ID] = *result
	return nil
}

func (f *fakeExamResultRepo) Delete(_ context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

type fakeCourseRepo struct {
	*memRows[models.Course]
	roster  map[int64][]models.RosterEntry
	nextID  int64
	creates int
}

func (f *fakeCourseRepo) List(_ context.Context, q models.ListQuery) ([]models.Course, int, error) {
	rows, total := page(f.rows, q)
	return rows, total, nil
}

func (f *fakeCourseRepo) ExistsByCode(_ context.Context, code string, excludeID int64) (bool, error) {
	for id, c := range f.rows {
		if c.Code == code && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	f.creates++
	f.nextID++
	course.ID = f.nextID
	f.rows[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	f.rows[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeCourseRepo) Roster(_ context.Context, courseID int64) ([]models.RosterEntry, error) {
	return f.roster[courseID], nil
}

type fakeUserRepo struct {
	*memRows[models.User]
	nextID  int64
	audits  []models.AuditLog
	revoked map[string]models.RevokedToken
	deleted []int64
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{memRows: rowsOf[models.User](nil), nextID: 100, revoked: map[string]models.RevokedToken{}}
	for _, u := range users {
		repo.rows[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) List(_ context.Context, q models.ListQuery) ([]models.User, int, error) {
	rows, total := page(f.rows, q)
	return rows, total, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.rows {
		if u.Email == email {
			clone := u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	for id, u := range f.rows {
		if u.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	f.rows[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.rows[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	delete(f.rows, id)
	return nil
}

func (f *fakeUserRepo) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.audits = append(f.audits, *log)
	return nil
}

func (f *fakeUserRepo) RevokeToken(_ context.Context, token *models.RevokedToken) error {
	f.revoked[token.JTI] = *token
	return nil
}

func (f *fakeUserRepo) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

func ptr[T any](v T) *T {
	return &v
}

func date(raw string) models.Date {
	d, err := models.ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}
