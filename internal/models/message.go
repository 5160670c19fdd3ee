package models

import "time"

// MessageTTL is how long a message stays readable before it is pruned.
const MessageTTL = 72 * time.Hour

// Message is one entry of the per-elder conversation. ExpiresAt is a unix
// timestamp in milliseconds, matching the stored layout; expired messages are
// filtered out on read and pruned from storage on access.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"texto"`
	Sent      bool      `json:"enviado"`
	SentAt    time.Time `json:"data"`
	ExpiresAt int64     `json:"expiracaoTimestamp"`
}

// Expired reports whether the message should no longer be visible.
func (m Message) Expired(now time.Time) bool {
	return m.ExpiresAt <= now.UnixMilli()
}
