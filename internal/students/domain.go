package students

import "time"

// Profile is a student's application profile.
type Profile struct {
	ID              string
	Name            string
	Email           string
	GraduationYear  int
	GPA             *float64
	SATScore        *int
	ACTScore        *int
	TargetCountries []string
	IntendedMajors  []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
