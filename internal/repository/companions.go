package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/store"

	"go.uber.org/zap"
)

// ErrCompanionNotFound is returned on lookup misses.
var ErrCompanionNotFound = errors.New("companion not found")

// CompanionsRepository manages the companion collection.
type CompanionsRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewCompanionsRepository creates a companions repository.
func NewCompanionsRepository(kv store.KV, logger *zap.Logger) *CompanionsRepository {
	return &CompanionsRepository{
		kv:     kv,
		logger: logger,
	}
}

// GetAllCompanions returns every companion record, seeding the collection
// with the demo dataset when the key is missing.
func (r *CompanionsRepository) GetAllCompanions(ctx context.Context) ([]models.Companion, error) {
	raw, err := r.kv.Get(ctx, store.KeyCompanions)
	if err != nil {
		return nil, fmt.Errorf("failed to load companions: %w", err)
	}

	if raw == nil {
		companions := SeedCompanions()
		if err := r.saveAll(ctx, companions); err != nil {
			return nil, err
		}

		r.logger.Info("Companion collection seeded",
			zap.Int("count", len(companions)),
		)
		return companions, nil
	}

	var companions []models.Companion
	if err := json.Unmarshal(raw, &companions); err != nil {
		return nil, fmt.Errorf("corrupted companion collection: %w", err)
	}

	return companions, nil
}

// GetCompanion returns one companion by id, or ErrCompanionNotFound.
func (r *CompanionsRepository) GetCompanion(ctx context.Context, id string) (*models.Companion, error) {
	if id == "" {
		return nil, fmt.Errorf("companion id is required")
	}

	companions, err := r.GetAllCompanions(ctx)
	if err != nil {
		return nil, err
	}

	for i := range companions {
		if companions[i].ID == id {
			companion := companions[i]
			return &companion, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrCompanionNotFound, id)
}

// FindLinked returns the companions linked to an elder through shared phone
// numbers.
func (r *CompanionsRepository) FindLinked(ctx context.Context, elder models.Elder) ([]models.Companion, error) {
	companions, err := r.GetAllCompanions(ctx)
	if err != nil {
		return nil, err
	}

	linkedPhones := make(map[string]bool, len(elder.CompanionPhones))
	for _, phone := range elder.CompanionPhones {
		linkedPhones[phone] = true
	}

	linked := []models.Companion{}
	for _, companion := range companions {
		for _, phone := range companion.Phones {
			if linkedPhones[phone] {
				linked = append(linked, companion)
				break
			}
		}
	}

	return linked, nil
}

// SaveCompanion inserts or replaces one companion record by id.
func (r *CompanionsRepository) SaveCompanion(ctx context.Context, companion models.Companion) error {
	if companion.ID == "" {
		return fmt.Errorf("companion id is required")
	}

	companions, err := r.GetAllCompanions(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range companions {
		if companions[i].ID == companion.ID {
			companions[i] = companion
			replaced = true
			break
		}
	}
	if !replaced {
		companions = append(companions, companion)
	}

	return r.saveAll(ctx, companions)
}

// RemoveCompanion deletes one companion record by id.
func (r *CompanionsRepository) RemoveCompanion(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("companion id is required")
	}

	companions, err := r.GetAllCompanions(ctx)
	if err != nil {
		return err
	}

	kept := companions[:0]
	for _, companion := range companions {
		if companion.ID != id {
			kept = append(kept, companion)
		}
	}

	return r.saveAll(ctx, kept)
}

func (r *CompanionsRepository) saveAll(ctx context.Context, companions []models.Companion) error {
	if companions == nil {
		companions = []models.Companion{}
	}

	raw, err := json.Marshal(companions)
	if err != nil {
		return fmt.Errorf("failed to marshal companions: %w", err)
	}

	if err := r.kv.Set(ctx, store.KeyCompanions, raw); err != nil {
		return fmt.Errorf("failed to save companions: %w", err)
	}

	return nil
}
