package models

import "time"

// Teacher represents an instructor who can lead classes and head departments.
type Teacher struct {
	ID         int64     `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Email      string    `db:"email" json:"email"`
	Phone      *string   `db:"phone" json:"phone"`
	Department *string   `db:"department" json:"department"`
	HireDate   *Date     `db:"hire_date" json:"hire_date"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
