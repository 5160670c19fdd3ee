// Package store persists the sentinela record collections. Each collection
// kind is stored as one JSON array under a distinct namespaced key, so every
// write replaces the whole collection snapshot (last write wins). Callers
// that need multi-writer safety must serialize writes themselves.
package store

import "context"

// Collection keys, one per record kind.
const (
	KeyElders     = "sentinela_idosos"
	KeyCompanions = "sentinela_acompanhantes"
	KeyAlerts     = "sentinela_alertas"
	KeyActivities = "sentinela_atividades"

	// Messages are stored per elder: KeyMessagesPrefix + elder id.
	KeyMessagesPrefix = "sentinela_mensagens_"
)

// KV is a key-value document store. Get returns (nil, nil) when the key does
// not exist.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
