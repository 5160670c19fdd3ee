// Package detector finds medication doses coming due within a short window.
package detector

import (
	"time"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/schedule"
)

// Detector scans elder medication schedules for doses about to come due.
type Detector struct {
	window time.Duration
}

// New creates a detector with the given look-ahead window.
func New(window time.Duration) *Detector {
	return &Detector{window: window}
}

// FindDue returns every dose scheduled strictly after now and at most the
// window ahead. Elders without the medication routine enabled, or without
// medications, contribute nothing. The detector holds no state between calls;
// reminder dedup is the dispatcher's concern.
func (d *Detector) FindDue(elders []models.Elder, now time.Time) []models.DueDose {
	due := []models.DueDose{}

	for _, elder := range elders {
		if !elder.MedicationRoutine || len(elder.Medications) == 0 {
			continue
		}

		for _, occurrence := range schedule.Expand(elder.Medications, now) {
			diff := occurrence.ScheduledAt.Sub(now)
			if diff > 0 && diff <= d.window {
				due = append(due, models.DueDose{
					Elder:      elder,
					Occurrence: occurrence,
				})
			}
		}
	}

	return due
}
