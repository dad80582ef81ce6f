package domain

import "time"

type AttendanceStatus string

const (
	AttendanceCheckedIn  AttendanceStatus = "checked-in"
	AttendanceCheckedOut AttendanceStatus = "checked-out"
)

// Attendance records one library visit, from badge scan in to scan out.
type Attendance struct {
	ID              string
	UserID          string
	Status          AttendanceStatus
	CheckInTime     time.Time
	CheckOutTime    *time.Time
	DurationMinutes int
}
