package service

import (
	"context"

	"github.com/noah-isme/school-api/internal/models"
)

type studentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Student, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Teacher, error)
}

type departmentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Department, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Course, error)
}

type classReader interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Class, error)
}

type examReader interface {
	FindByID(ctx context.Context, id int64) (*models.Exam, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Exam, error)
}

// Relations resolves referenced entities for foreign key checks and eager loading.
// Each field may be left nil when the owning service never needs it.
type Relations struct {
	Students    studentReader
	Teachers    teacherReader
	Departments departmentReader
	Courses     courseReader
	Classes     classReader
	Exams       examReader
}

func (r Relations) requireStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := r.Students.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Student")
	}
	return student, nil
}

func (r Relations) requireTeacher(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := r.Teachers.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Teacher")
	}
	return teacher, nil
}

func (r Relations) requireDepartment(ctx context.Context, id int64) (*models.Department, error) {
	department, err := r.Departments.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Department")
	}
	return department, nil
}

func (r Relations) requireCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := r.Courses.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Course")
	}
	return course, nil
}

func (r Relations) requireClass(ctx context.Context, id int64) (*models.Class, error) {
	class, err := r.Classes.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Class")
	}
	return class, nil
}

func (r Relations) requireExam(ctx context.Context, id int64) (*models.Exam, error) {
	exam, err := r.Exams.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Exam")
	}
	return exam, nil
}

func (r Relations) studentsByID(ctx context.Context, ids []int64) (map[int64]*models.Student, error) {
	students, err := r.Students.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, internalError(err, "failed to load students")
	}
	return indexByID(students, func(s *models.Student) int64 { return s.ID }), nil
}

func (r Relations) teachersByID(ctx context.Context, ids []int64) (map[int64]*models.Teacher, error) {
	teachers, err := r.Teachers.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, internalError(err, "failed to load teachers")
	}
	return indexByID(teachers, func(t *models.Teacher) int64 { return t.ID }), nil
}

func (r Relations) departmentsByID(ctx context.Context, ids []int64) (map[int64]*models.Department, error) {
	departments, err := r.Departments.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, internalError(err, "failed to load departments")
	}
	return indexByID(departments, func(d *models.Department) int64 { return d.ID }), nil
}

func (r Relations) coursesByID(ctx context.Context, ids []int64) (map[int64]*models.Course, error) {
	courses, err := r.Courses.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, internalError(err, "failed to load courses")
	}
	return indexByID(courses, func(c *models.Course) int64 { return c.ID }), nil
}

// classDetails attaches course and teacher to each class.
func (r Relations) classDetails(ctx context.Context, classes []models.Class) ([]models.ClassDetail, error) {
	courseIDs := make([]int64, 0, len(classes))
	teacherIDs := make([]int64, 0, len(classes))
	for _, class := range classes {
		courseIDs = append(courseIDs, class.CourseID)
		teacherIDs = append(teacherIDs, class.TeacherID)
	}
	courses, err := r.coursesByID(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	teachers, err := r.teachersByID(ctx, teacherIDs)
	if err != nil {
		return nil, err
	}
	details := make([]models.ClassDetail, 0, len(classes))
	for _, class := range classes {
		details = append(details, models.ClassDetail{
			Class:   class,
			Course:  courses[class.CourseID],
			Teacher: teachers[class.TeacherID],
		})
	}
	return details, nil
}

// classDetailsByID loads classes by id together with their course and teacher.
func (r Relations) classDetailsByID(ctx context.Context, ids []int64) (map[int64]*models.ClassDetail, error) {
	classes, err := r.Classes.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, internalError(err, "failed to load classes")
	}
	details, err := r.classDetails(ctx, classes)
	if err != nil {
		return nil, err
	}
	return indexByID(details, func(d *models.ClassDetail) int64 { return d.ID }), nil
}

// examDetailsByID loads exams by id together with their course.
func (r Relations) examDetailsByID(ctx context.Context, ids []int64) (map[int64]*models.ExamDetail, error) {
	exams, err := r.Exams.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, internalError(err, "failed to load exams")
	}
	courseIDs := make([]int64, 0, len(exams))
	for _, exam := range exams {
		courseIDs = append(courseIDs, exam.CourseID)
	}
	courses, err := r.coursesByID(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	details := make([]models.ExamDetail, 0, len(exams))
	for _, exam := range exams {
		details = append(details, models.ExamDetail{Exam: exam, Course: courses[exam.CourseID]})
	}
	return indexByID(details, func(d *models.ExamDetail) int64 { return d.ID }), nil
}
