package models

import "time"

// DefaultMaxStudents applies when a class is created without a capacity.
const DefaultMaxStudents = 30

// Class is a scheduled section of a course taught by one teacher.
type Class struct {
	ID              int64     `db:"id" json:"id"`
	CourseID        int64     `db:"course_id" json:"course_id"`
	TeacherID       int64     `db:"teacher_id" json:"teacher_id"`
	Room            *string   `db:"room" json:"room"`
	Schedule        *string   `db:"schedule" json:"schedule"`
	MaxStudents     int       `db:"max_students" json:"max_students"`
	CurrentStudents int       `db:"current_students" json:"current_students"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail embeds the course and teacher of a class.
type ClassDetail struct {
	Class
	Course  *Course  `json:"course"`
	Teacher *Teacher `json:"teacher"`
}
