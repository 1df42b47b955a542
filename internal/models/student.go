package models

import "time"

// Student represents a learner registered in the institution.
type Student struct {
	ID             int64     `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Email          string    `db:"email" json:"email"`
	BirthDate      *Date     `db:"birth_date" json:"birth_date"`
	EnrollmentDate Date      `db:"enrollment_date" json:"enrollment_date"`
	Address        *string   `db:"address" json:"address"`
	Phone          *string   `db:"phone" json:"phone"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
