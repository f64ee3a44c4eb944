package notes

import "time"

// Note is a parent's private note attached to an application.
type Note struct {
	ID            string
	ParentID      string
	ApplicationID string
	Content       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
