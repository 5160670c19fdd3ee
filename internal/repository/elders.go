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

// ErrElderNotFound is returned on lookup misses. Callers treat it as
// non-fatal.
var ErrElderNotFound = errors.New("elder not found")

// EldersRepository manages the elder collection.
type EldersRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewEldersRepository creates an elders repository.
func NewEldersRepository(kv store.KV, logger *zap.Logger) *EldersRepository {
	return &EldersRepository{
		kv:     kv,
		logger: logger,
	}
}

// GetAllElders returns every elder record, seeding the collection with the
// demo dataset when the key is missing.
func (r *EldersRepository) GetAllElders(ctx context.Context) ([]models.Elder, error) {
	raw, err := r.kv.Get(ctx, store.KeyElders)
	if err != nil {
		return nil, fmt.Errorf("failed to load elders: %w", err)
	}

	if raw == nil {
		elders := SeedElders()
		if err := r.saveAll(ctx, elders); err != nil {
			return nil, err
		}

		r.logger.Info("Elder collection seeded",
			zap.Int("count", len(elders)),
		)
		return elders, nil
	}

	var elders []models.Elder
	if err := json.Unmarshal(raw, &elders); err != nil {
		return nil, fmt.Errorf("corrupted elder collection: %w", err)
	}

	return elders, nil
}

// GetElder returns one elder by id, or ErrElderNotFound.
func (r *EldersRepository) GetElder(ctx context.Context, id string) (*models.Elder, error) {
	if id == "" {
		return nil, fmt.Errorf("elder id is required")
	}

	elders, err := r.GetAllElders(ctx)
	if err != nil {
		return nil, err
	}

	for i := range elders {
		if elders[i].ID == id {
			elder := elders[i]
			return &elder, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrElderNotFound, id)
}

// SaveElder inserts or replaces one elder record by id.
func (r *EldersRepository) SaveElder(ctx context.Context, elder models.Elder) error {
	if elder.ID == "" {
		return fmt.Errorf("elder id is required")
	}

	elders, err := r.GetAllElders(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range elders {
		if elders[i].ID == elder.ID {
			elders[i] = elder
			replaced = true
			break
		}
	}
	if !replaced {
		elders = append(elders, elder)
	}

	return r.saveAll(ctx, elders)
}

// RemoveElder deletes one elder record by id. Removing an unknown id is a
// no-op.
func (r *EldersRepository) RemoveElder(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("elder id is required")
	}

	elders, err := r.GetAllElders(ctx)
	if err != nil {
		return err
	}

	kept := elders[:0]
	for _, elder := range elders {
		if elder.ID != id {
			kept = append(kept, elder)
		}
	}

	return r.saveAll(ctx, kept)
}

func (r *EldersRepository) saveAll(ctx context.Context, elders []models.Elder) error {
	if elders == nil {
		elders = []models.Elder{}
	}

	raw, err := json.Marshal(elders)
	if err != nil {
		return fmt.Errorf("failed to marshal elders: %w", err)
	}

	if err := r.kv.Set(ctx, store.KeyElders, raw); err != nil {
		return fmt.Errorf("failed to save elders: %w", err)
	}

	return nil
}
