// Package schedule expands medication frequency codes into the concrete dose
// times of a single day.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"sentinela-alert/internal/models"
)

// intervalHours maps each supported frequency code to the gap between doses.
// Legacy codes predate the "every-*" naming and are kept readable from old
// records.
var intervalHours = map[string]int{
	models.FrequencyOnceDaily: 24,
	models.FrequencyEvery12h:  12,
	models.FrequencyEvery8h:   8,
	models.FrequencyEvery6h:   6,
	models.FrequencyEvery4h:   4,
	models.FrequencyLegacy24h: 24,
	models.FrequencyLegacy12h: 12,
	models.FrequencyLegacy8h:  8,
}

// IntervalHours returns the dose interval for a frequency code, or false when
// the code is unknown.
func IntervalHours(frequency string) (int, bool) {
	hours, ok := intervalHours[frequency]
	return hours, ok
}

// Expand computes every dose occurrence of the given medications on the day of
// referenceDay. Each medication contributes 24/interval doses starting at its
// base time; doses whose offset crosses midnight land on the following day.
// Medications with an unknown frequency or a malformed base time are skipped.
// The result is sorted by scheduled time, earliest first.
func Expand(medications []models.Medication, referenceDay time.Time) []models.DoseOccurrence {
	occurrences := []models.DoseOccurrence{}

	for _, medication := range medications {
		hours, ok := intervalHours[medication.Frequency]
		if !ok {
			continue
		}

		base, err := parseBaseTime(medication.BaseTime, referenceDay)
		if err != nil {
			continue
		}

		doses := 24 / hours
		for i := 0; i < doses; i++ {
			occurrences = append(occurrences, models.DoseOccurrence{
				MedicationName: medication.Name,
				ScheduledAt:    base.Add(time.Duration(i*hours) * time.Hour),
			})
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].ScheduledAt.Before(occurrences[j].ScheduledAt)
	})

	return occurrences
}

// parseBaseTime anchors an "HH:MM" clock value on the reference day.
func parseBaseTime(value string, referenceDay time.Time) (time.Time, error) {
	clock, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid base time %q: %w", value, err)
	}

	return time.Date(
		referenceDay.Year(), referenceDay.Month(), referenceDay.Day(),
		clock.Hour(), clock.Minute(), 0, 0,
		referenceDay.Location(),
	), nil
}
