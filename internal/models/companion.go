package models

import "time"

// Companion is a family member or caregiver linked to one or more elders
// through shared phone numbers.
type Companion struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Age          int       `json:"idade"`
	Relationship string    `json:"grauParentesco"`
	Address      string    `json:"endereco"`
	Phones       []string  `json:"telefones"`
	HasWhatsApp  bool      `json:"temWhatsapp"`
	RegisteredAt time.Time `json:"dataCadastro"`
}
