package models

import "time"

// ExamResult is one student's outcome in one exam.
type ExamResult struct {
	ID        int64     `db:"id" json:"id"`
	ExamID    int64     `db:"exam_id" json:"exam_id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	Score     *float64  `db:"score" json:"score"`
	Grade     *string   `db:"grade" json:"grade"`
	Feedback  *string   `db:"feedback" json:"feedback"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExamResultDetail embeds the exam with its course and the student.
type ExamResultDetail struct {
	ExamResult
	Exam    *ExamDetail `json:"exam"`
	Student *Student    `json:"student"`
}
