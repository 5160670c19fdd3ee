package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// DedupGuard remembers which dose reminders were already sent so a dose is
// announced at most once per scheduled time.
type DedupGuard interface {
	// Mark records the reminder and reports whether this call was the first
	// one for the given dose.
	Mark(ctx context.Context, subjectID, medication string, scheduledAt time.Time) (bool, error)

	// Unmark drops the reminder marker so a failed dispatch can be retried
	// on a later sweep.
	Unmark(ctx context.Context, subjectID, medication string, scheduledAt time.Time) error
}

func dedupKey(prefix, subjectID, medication string, scheduledAt time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", prefix, subjectID, medication, scheduledAt.Format("2006-01-02T15:04"))
}

// endOfDay returns the TTL that keeps a dedup entry alive until local
// midnight, when the schedule starts over.
func endOfDay(now time.Time) time.Duration {
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return midnight.Sub(now)
}

// RedisDedupGuard stores reminder markers as TTL'd Redis keys shared across
// service instances.
type RedisDedupGuard struct {
	client *redis.Client
	prefix string
}

// NewRedisDedupGuard creates a Redis-backed dedup guard.
func NewRedisDedupGuard(client *redis.Client, prefix string) *RedisDedupGuard {
	return &RedisDedupGuard{
		client: client,
		prefix: prefix,
	}
}

// Mark sets the dose marker if absent. SETNX makes the check-and-set atomic
// across instances.
func (g *RedisDedupGuard) Mark(ctx context.Context, subjectID, medication string, scheduledAt time.Time) (bool, error) {
	key := dedupKey(g.prefix, subjectID, medication, scheduledAt)

	first, err := g.client.SetNX(ctx, key, "1", endOfDay(scheduledAt)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark reminder: %w", err)
	}

	return first, nil
}

// Unmark deletes the dose marker.
func (g *RedisDedupGuard) Unmark(ctx context.Context, subjectID, medication string, scheduledAt time.Time) error {
	key := dedupKey(g.prefix, subjectID, medication, scheduledAt)

	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to unmark reminder: %w", err)
	}

	return nil
}

// MemoryDedupGuard is an in-process guard for the memory backend and tests.
type MemoryDedupGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemoryDedupGuard creates an in-memory dedup guard.
func NewMemoryDedupGuard() *MemoryDedupGuard {
	return &MemoryDedupGuard{
		seen: make(map[string]time.Time),
	}
}

// Mark records the dose marker, expiring entries from previous days.
func (g *MemoryDedupGuard) Mark(_ context.Context, subjectID, medication string, scheduledAt time.Time) (bool, error) {
	key := dedupKey("", subjectID, medication, scheduledAt)

	g.mu.Lock()
	defer g.mu.Unlock()

	day := scheduledAt.Truncate(24 * time.Hour)
	for k, d := range g.seen {
		if d.Before(day) {
			delete(g.seen, k)
		}
	}

	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = day
	return true, nil
}

// Unmark deletes the dose marker.
func (g *MemoryDedupGuard) Unmark(_ context.Context, subjectID, medication string, scheduledAt time.Time) error {
	key := dedupKey("", subjectID, medication, scheduledAt)

	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.seen, key)
	return nil
}
