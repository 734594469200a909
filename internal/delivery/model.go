package delivery

import "time"

// Delivery is a resume a user sent to a job.
type Delivery struct {
	ID        int
	JobID     int
	UserID    string
	Resume    string
	CreatedAt time.Time
	JobName   string
	UserName  string
	UserEmail string
	TimeAgo   string
}
