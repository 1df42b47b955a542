package models

import "time"

// Department groups courses and optionally has a head teacher.
type Department struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Location    *string   `db:"location" json:"location"`
	Description *string   `db:"description" json:"description"`
	HeadID      *int64    `db:"head_id" json:"head_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentDetail embeds the head teacher.
type DepartmentDetail struct {
	Department
	Head *Teacher `json:"head"`
}
