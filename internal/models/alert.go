package models

import "time"

// Alert categories. The persisted values are the ones the dashboard stores.
const (
	CategoryEmergency    = "emergencia"
	CategoryMedication   = "medicamento"
	CategoryCheckIn      = "check-in"
	CategoryHealthCheck  = "verificacao"
	CategoryNotification = "notificacao"
)

// Alert statuses. Transitions are not guarded: any status may be overwritten
// with any other, including resolved back to unresolved. Whether that should
// be restricted is a product decision left open by the dashboard.
const (
	StatusUnresolved = "nao_resolvido"
	StatusInProgress = "em_andamento"
	StatusResolved   = "resolvido"
)

// Alert is a persisted, user-visible event requiring attention.
// SubjectName is a snapshot of the elder's name taken at creation time and is
// never re-synced if the elder is renamed later.
type Alert struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"idosoId"`
	SubjectName string    `json:"idosoNome"`
	Category    string    `json:"tipo"`
	Message     string    `json:"mensagem"`
	CreatedAt   time.Time `json:"data"`
	Status      string    `json:"status"`
}

// AlertCounters is the aggregated dashboard view of the alert collection.
// Open counts exclude resolved alerts; the totals are recomputed from the
// full collection on every call.
type AlertCounters struct {
	EmergencyOpen  int `json:"emergencia"`
	MedicationOpen int `json:"medicamento"`
	ResolvedTotal  int `json:"resolvidos"`
	GrandTotal     int `json:"total"`
}
