// Package guardian owns the parent-student relationship: the guardianship
// predicate consumed by the authorization engine, the link records behind it,
// and an optional read-through cache.
package guardian

import "time"

// Link ties a parent principal to a student record.
type Link struct {
	ParentID    string
	StudentID   string
	StudentName string
	CreatedAt   time.Time
}
