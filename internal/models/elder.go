package models

import "time"

// Plan tiers offered by the subscription service.
const (
	PlanEssencial = "Essencial"
	PlanAmparo    = "Amparo"
	PlanVidaPlus  = "Vida+"
)

// Medication frequency codes. The legacy codes ("24h", "12h", "8h") still
// appear in stored records and map onto the same dosing intervals.
const (
	FrequencyOnceDaily = "once-daily"
	FrequencyEvery12h  = "every-12h"
	FrequencyEvery8h   = "every-8h"
	FrequencyEvery6h   = "every-6h"
	FrequencyEvery4h   = "every-4h"

	FrequencyLegacy24h = "24h"
	FrequencyLegacy12h = "12h"
	FrequencyLegacy8h  = "8h"
)

// Medication is one entry of an elder's medication routine.
// BaseTime is the first dose of the day in "HH:MM".
type Medication struct {
	Name      string `json:"nome"`
	BaseTime  string `json:"horario"`
	Frequency string `json:"frequencia,omitempty"`
}

// Elder is a monitored individual. JSON field names follow the persisted
// record layout of the sentinela collections.
type Elder struct {
	ID                string       `json:"id"`
	Name              string       `json:"nome"`
	Age               int          `json:"idade"`
	MedicationRoutine bool         `json:"rotinaMedicamentos"`
	Medications       []Medication `json:"medicamentos"`
	Address           string       `json:"endereco"`
	Phones            []string     `json:"telefones"`
	CompanionPhones   []string     `json:"telefonesAcompanhantes"`
	HasSpareKey       bool         `json:"possuiChave"`
	Plan              string       `json:"plano"`
	RegisteredAt      time.Time    `json:"dataCadastro"`
}
