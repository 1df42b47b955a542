package models

import "time"

// Course is a unit of study offered by a department.
type Course struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Code         string    `db:"code" json:"code"`
	Description  *string   `db:"description" json:"description"`
	Credits      int       `db:"credits" json:"credits"`
	StartDate    *Date     `db:"start_date" json:"start_date"`
	EndDate      *Date     `db:"end_date" json:"end_date"`
	DepartmentID *int64    `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail embeds the owning department.
type CourseDetail struct {
	Course
	Department *Department `json:"department"`
}

// RosterEntry is one enrolled student of a course roster export.
type RosterEntry struct {
	EnrollmentID   int64
	StudentID      int64
	StudentName    string
	Email          string
	EnrollmentDate Date
	Status         string
	Grade          *float64
}
