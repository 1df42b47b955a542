package models

import "time"

// Enrollment registers a student in a course.
type Enrollment struct {
	ID             int64     `db:"id" json:"id"`
	StudentID      int64     `db:"student_id" json:"student_id"`
	CourseID       int64     `db:"course_id" json:"course_id"`
	EnrollmentDate Date      `db:"enrollment_date" json:"enrollment_date"`
	Grade          *float64  `db:"grade" json:"grade"`
	Status         *string   `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail embeds the student and course.
type EnrollmentDetail struct {
	Enrollment
	Student *Student `json:"student"`
	Course  *Course  `json:"course"`
}
