package models

import "time"

// Activity is one append-only log entry recording an action taken. Entries
// have no status and are never deleted through the service.
type Activity struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"userId"`
	Category    string    `json:"tipo"`
	Description string    `json:"descricao"`
	Timestamp   time.Time `json:"data"`
}
