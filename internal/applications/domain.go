package applications

import "time"

// Application tracks one student's application to one university.
type Application struct {
	ID           string
	StudentID    string
	UniversityID string
	Type         string
	Status       string
	Deadline     time.Time
	SubmittedAt  *time.Time
	DecisionType string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Application round types.
const (
	TypeEarlyDecision    = "EARLY_DECISION"
	TypeEarlyAction      = "EARLY_ACTION"
	TypeRegularDecision  = "REGULAR_DECISION"
	TypeRollingAdmission = "ROLLING_ADMISSION"
)

// Application lifecycle statuses.
const (
	StatusNotStarted  = "NOT_STARTED"
	StatusInProgress  = "IN_PROGRESS"
	StatusSubmitted   = "SUBMITTED"
	StatusUnderReview = "UNDER_REVIEW"
	StatusDecided     = "DECIDED"
)

// ValidType reports whether t is a known application type.
func ValidType(t string) bool {
	switch t {
	case TypeEarlyDecision, TypeEarlyAction, TypeRegularDecision, TypeRollingAdmission:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusSubmitted, StatusUnderReview, StatusDecided:
		return true
	}
	return false
}
