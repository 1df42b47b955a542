package models

import "time"

// AttendanceStatus enumerates the attendance outcomes.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Attendance records one student's presence in a class on a date.
type Attendance struct {
	ID        int64            `db:"id" json:"id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	ClassID   int64            `db:"class_id" json:"class_id"`
	Date      Date             `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Remark    *string          `db:"remark" json:"remark"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceDetail embeds the student and the class with its course and teacher.
type AttendanceDetail struct {
	Attendance
	Student *Student     `json:"student"`
	Class   *ClassDetail `json:"class"`
}
