package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/store"

	"go.uber.org/zap"
)

// ErrAlertNotFound is returned on lookup misses. Callers treat it as
// non-fatal.
var ErrAlertNotFound = errors.New("alert not found")

// AlertsRepository manages the alert collection.
type AlertsRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewAlertsRepository creates an alerts repository.
func NewAlertsRepository(kv store.KV, logger *zap.Logger) *AlertsRepository {
	return &AlertsRepository{
		kv:     kv,
		logger: logger,
	}
}

// GetAlerts returns alerts sorted newest-first. When subjectID is non-empty
// only that subject's alerts are returned. The collection is seeded with the
// demo dataset when the key is missing.
func (r *AlertsRepository) GetAlerts(ctx context.Context, subjectID string) ([]models.Alert, error) {
	alerts, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	if subjectID != "" {
		filtered := []models.Alert{}
		for _, alert := range alerts {
			if alert.SubjectID == subjectID {
				filtered = append(filtered, alert)
			}
		}
		alerts = filtered
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})

	return alerts, nil
}

// AppendAlert adds one alert to the collection.
func (r *AlertsRepository) AppendAlert(ctx context.Context, alert models.Alert) error {
	if alert.ID == "" {
		return fmt.Errorf("alert id is required")
	}

	alerts, err := r.loadAll(ctx)
	if err != nil {
		return err
	}

	alerts = append(alerts, alert)
	return r.saveAll(ctx, alerts)
}

// UpdateStatus overwrites one alert's status unconditionally. No transition
// legality is enforced: any status may replace any other.
func (r *AlertsRepository) UpdateStatus(ctx context.Context, alertID, status string) (*models.Alert, error) {
	if alertID == "" {
		return nil, fmt.Errorf("alert id is required")
	}
	if status == "" {
		return nil, fmt.Errorf("status is required")
	}

	alerts, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range alerts {
		if alerts[i].ID == alertID {
			alerts[i].Status = status
			if err := r.saveAll(ctx, alerts); err != nil {
				return nil, err
			}

			updated := alerts[i]
			return &updated, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrAlertNotFound, alertID)
}

// ClearAll empties the entire alert collection.
func (r *AlertsRepository) ClearAll(ctx context.Context) error {
	return r.saveAll(ctx, []models.Alert{})
}

// ClearForSubject removes only the alerts belonging to one subject.
func (r *AlertsRepository) ClearForSubject(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return fmt.Errorf("subject id is required")
	}

	alerts, err := r.loadAll(ctx)
	if err != nil {
		return err
	}

	kept := alerts[:0]
	for _, alert := range alerts {
		if alert.SubjectID != subjectID {
			kept = append(kept, alert)
		}
	}

	return r.saveAll(ctx, kept)
}

// Counters recomputes the dashboard counters from the full collection.
func (r *AlertsRepository) Counters(ctx context.Context) (models.AlertCounters, error) {
	alerts, err := r.loadAll(ctx)
	if err != nil {
		return models.AlertCounters{}, err
	}

	counters := models.AlertCounters{GrandTotal: len(alerts)}
	for _, alert := range alerts {
		if alert.Status == models.StatusResolved {
			counters.ResolvedTotal++
			continue
		}
		switch alert.Category {
		case models.CategoryEmergency:
			counters.EmergencyOpen++
		case models.CategoryMedication:
			counters.MedicationOpen++
		}
	}

	return counters, nil
}

func (r *AlertsRepository) loadAll(ctx context.Context) ([]models.Alert, error) {
	raw, err := r.kv.Get(ctx, store.KeyAlerts)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}

	if raw == nil {
		alerts := SeedAlerts(time.Now())
		if err := r.saveAll(ctx, alerts); err != nil {
			return nil, err
		}

		r.logger.Info("Alert collection seeded",
			zap.Int("count", len(alerts)),
		)
		return alerts, nil
	}

	var alerts []models.Alert
	if err := json.Unmarshal(raw, &alerts); err != nil {
		return nil, fmt.Errorf("corrupted alert collection: %w", err)
	}

	return alerts, nil
}

func (r *AlertsRepository) saveAll(ctx context.Context, alerts []models.Alert) error {
	if alerts == nil {
		alerts = []models.Alert{}
	}

	raw, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to marshal alerts: %w", err)
	}

	if err := r.kv.Set(ctx, store.KeyAlerts, raw); err != nil {
		return fmt.Errorf("failed to save alerts: %w", err)
	}

	return nil
}
