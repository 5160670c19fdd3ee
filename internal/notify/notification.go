// Package notify delivers alert notifications to companions over the
// configured channels. Delivery is best-effort: a failed send is logged and
// never blocks the alert pipeline.
package notify

import (
	"context"
	"time"
)

// Notification is the payload delivered to companion devices. Recipients
// names the companions linked to the elder, when known.
type Notification struct {
	SubjectID   string    `json:"idosoId"`
	SubjectName string    `json:"idosoNome"`
	Action      string    `json:"acao"`
	Message     string    `json:"mensagem"`
	Sound       string    `json:"som,omitempty"`
	Recipients  []string  `json:"destinatarios,omitempty"`
	Timestamp   time.Time `json:"data"`
}

// Notifier delivers a notification over one channel.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// sounds maps each action to its companion-app sound file.
var sounds = map[string]string{
	"check-in":    "check-in.mp3",
	"remedio":     "remedio.mp3",
	"emergencia":  "emergencia.mp3",
	"verificacao": "verificacao.mp3",
	"mensagem":    "mensagem.mp3",
	"chamada":     "chamada.mp3",
}

// SoundFor returns the sound file for an action, or empty for unknown actions.
func SoundFor(action string) string {
	return sounds[action]
}
