package run

import "time"

// DateFormat is the calendar-day key format used by the execution ledger.
const DateFormat = "2006-01-02"

// Run records a completed notification run for one calendar day.
// Corresponds to the 'notification_runs' table.
type Run struct {
	ID          int64
	RunDate     string // calendar date in DateFormat, process-local time zone
	State       string // entity state the run resolved
	Destination string // webhook URL the notification went to
	Delivered   bool
	CreatedAt   time.Time
}

// Date returns t's calendar date in RunDate form.
func Date(t time.Time) string {
	return t.Format(DateFormat)
}
