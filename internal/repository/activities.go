package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/store"

	"go.uber.org/zap"
)

// ActivitiesRepository manages the append-only activity log. Entries are
// only ever created and listed; there is no deletion.
type ActivitiesRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewActivitiesRepository creates an activities repository.
func NewActivitiesRepository(kv store.KV, logger *zap.Logger) *ActivitiesRepository {
	return &ActivitiesRepository{
		kv:     kv,
		logger: logger,
	}
}

// AppendActivity adds one entry to the log.
func (r *ActivitiesRepository) AppendActivity(ctx context.Context, activity models.Activity) error {
	if activity.ID == "" {
		return fmt.Errorf("activity id is required")
	}

	activities, err := r.loadAll(ctx)
	if err != nil {
		return err
	}

	activities = append(activities, activity)

	raw, err := json.Marshal(activities)
	if err != nil {
		return fmt.Errorf("failed to marshal activities: %w", err)
	}

	if err := r.kv.Set(ctx, store.KeyActivities, raw); err != nil {
		return fmt.Errorf("failed to save activities: %w", err)
	}

	return nil
}

// GetActivities returns log entries sorted newest-first, optionally filtered
// to one subject.
func (r *ActivitiesRepository) GetActivities(ctx context.Context, subjectID string) ([]models.Activity, error) {
	activities, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	if subjectID != "" {
		filtered := []models.Activity{}
		for _, activity := range activities {
			if activity.SubjectID == subjectID {
				filtered = append(filtered, activity)
			}
		}
		activities = filtered
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})

	return activities, nil
}

func (r *ActivitiesRepository) loadAll(ctx context.Context) ([]models.Activity, error) {
	raw, err := r.kv.Get(ctx, store.KeyActivities)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	if raw == nil {
		return []models.Activity{}, nil
	}

	var activities []models.Activity
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, fmt.Errorf("corrupted activity collection: %w", err)
	}

	return activities, nil
}
