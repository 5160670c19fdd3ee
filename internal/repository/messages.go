package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/store"

	"go.uber.org/zap"
)

// MessagesRepository manages the per-elder message collections. Messages
// carry a 72-hour expiry: expired entries are filtered out on read and the
// pruned collection is written back when anything was removed.
type MessagesRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewMessagesRepository creates a messages repository.
func NewMessagesRepository(kv store.KV, logger *zap.Logger) *MessagesRepository {
	return &MessagesRepository{
		kv:     kv,
		logger: logger,
	}
}

// GetMessages returns the still-valid messages for one elder, pruning
// expired entries from storage on access.
func (r *MessagesRepository) GetMessages(ctx context.Context, elderID string) ([]models.Message, error) {
	if elderID == "" {
		return nil, fmt.Errorf("elder id is required")
	}

	key := store.KeyMessagesPrefix + elderID
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	if raw == nil {
		return []models.Message{}, nil
	}

	var messages []models.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("corrupted message collection: %w", err)
	}

	now := time.Now()
	valid := []models.Message{}
	for _, msg := range messages {
		if !msg.Expired(now) {
			valid = append(valid, msg)
		}
	}

	if len(valid) < len(messages) {
		if err := r.saveAll(ctx, elderID, valid); err != nil {
			return nil, err
		}

		r.logger.Debug("Expired messages pruned",
			zap.String("elder_id", elderID),
			zap.Int("removed", len(messages)-len(valid)),
		)
	}

	return valid, nil
}

// AppendMessage adds one message to an elder's collection.
func (r *MessagesRepository) AppendMessage(ctx context.Context, elderID string, message models.Message) error {
	if message.ID == "" {
		return fmt.Errorf("message id is required")
	}

	messages, err := r.GetMessages(ctx, elderID)
	if err != nil {
		return err
	}

	messages = append(messages, message)
	return r.saveAll(ctx, elderID, messages)
}

func (r *MessagesRepository) saveAll(ctx context.Context, elderID string, messages []models.Message) error {
	if messages == nil {
		messages = []models.Message{}
	}

	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	if err := r.kv.Set(ctx, store.KeyMessagesPrefix+elderID, raw); err != nil {
		return fmt.Errorf("failed to save messages: %w", err)
	}

	return nil
}
