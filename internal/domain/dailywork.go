package domain

import "time"

// DailyWork is one day's executed volume against a task. TaskID becomes nil
// when the task is deleted; the record itself is kept.
type DailyWork struct {
	ID          string
	ProjectID   string
	TaskID      *string
	Date        time.Time
	Volume      float64
	Description string
	CreatedAt   time.Time
}
