package models

import "time"

// Schedule is a recurring duty slot staff are marked against. Times are
// free-form text in storage.
type Schedule struct {
	ID           int64     `db:"id" json:"id"`
	DepartmentID int64     `db:"department_id" json:"department_id"`
	Title        string    `db:"title" json:"title"`
	Weekday      int       `db:"weekday" json:"weekday"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
