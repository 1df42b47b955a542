package models

import "time"

// Assignment is coursework attached to a course.
type Assignment struct {
	ID          int64     `db:"id" json:"id"`
	CourseID    int64     `db:"course_id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	DueDate     *Date     `db:"due_date" json:"due_date"`
	MaxScore    *float64  `db:"max_score" json:"max_score"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentDetail embeds the course.
type AssignmentDetail struct {
	Assignment
	Course *Course `json:"course"`
}
