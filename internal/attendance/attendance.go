package attendance

import "time"

// AttStatus is an attendance record's state. Check-in writes Present.
type AttStatus string

const (
	StatusPresent AttStatus = "PRESENT"
	StatusAbsent  AttStatus = "ABSENT"
	StatusLate    AttStatus = "LATE"
)

// Method tags how a check-in was performed.
type Method string

const (
	MethodQRCode Method = "QR_CODE"
	MethodManual Method = "MANUAL"
	MethodIDScan Method = "ID_SCAN"
)

// Valid reports whether m is a known check-in method.
func (m Method) Valid() bool {
	switch m {
	case MethodQRCode, MethodManual, MethodIDScan:
		return true
	}
	return false
}

// Attendance records that a registered user checked in (and optionally out)
// at an event. At most one exists per (event, user) pair.
type Attendance struct {
	ID            int64      `json:"id"`
	EventID       int64      `json:"event_id"`
	UserID        int64      `json:"user_id"`
	CheckInTime   time.Time  `json:"check_in_time"`
	CheckOutTime  *time.Time `json:"check_out_time,omitempty"`
	Status        AttStatus  `json:"status"`
	CheckInMethod Method     `json:"check_in_method"`
	CreatedAt     time.Time  `json:"created_at"`
	UserName      string     `json:"user_name,omitempty"`
	EventTitle    string     `json:"event_title,omitempty"`
}

// Stats summarizes turnout for one event. TotalAbsent is clamped at zero so
// inconsistent data cannot produce a negative count.
type Stats struct {
	TotalRegistered int     `json:"total_registered"`
	TotalPresent    int     `json:"total_present"`
	TotalAbsent     int     `json:"total_absent"`
	AttendanceRate  float64 `json:"attendance_rate"`
}
