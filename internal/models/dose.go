package models

import "time"

// DoseOccurrence is one derived scheduled instance of taking a medication,
// computed from the medication's base time and frequency for a calendar day.
// Occurrences are recomputed on every evaluation and never persisted.
type DoseOccurrence struct {
	MedicationName string
	ScheduledAt    time.Time
}

// DueDose pairs an elder with a dose occurrence that is currently inside the
// notification window.
type DueDose struct {
	Elder      Elder
	Occurrence DoseOccurrence
}
