package models

import "time"

// ExamType enumerates the kinds of exam.
type ExamType string

const (
	ExamMidterm    ExamType = "midterm"
	ExamFinal      ExamType = "final"
	ExamQuiz       ExamType = "quiz"
	ExamAssignment ExamType = "assignment"
)

// Exam is an assessment event for a course.
type Exam struct {
	ID        int64     `db:"id" json:"id"`
	CourseID  int64     `db:"course_id" json:"course_id"`
	Date      Date      `db:"date" json:"date"`
	Duration  *string   `db:"duration" json:"duration"`
	Location  *string   `db:"location" json:"location"`
	Type      ExamType  `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExamDetail embeds the course and, on show, the results with their students.
type ExamDetail struct {
	Exam
	Course  *Course             `json:"course"`
	Results []ExamResultSummary `json:"results,omitempty"`
}

// ExamResultSummary is an exam result nested under its exam.
type ExamResultSummary struct {
	ExamResult
	Student *Student `json:"student"`
}
