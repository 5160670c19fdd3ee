package repository

import (
	"time"

	"sentinela-alert/internal/models"
)

// Demo dataset used to initialize empty collections, matching the dashboard's
// first-run state. Collections are seeded only when their key is missing, so
// operator data is never overwritten.

// SeedElders returns the initial elder records.
func SeedElders() []models.Elder {
	return []models.Elder{
		{
			ID:                "idoso-1",
			Name:              "Maria Silva",
			Age:               78,
			MedicationRoutine: true,
			Medications: []models.Medication{
				{Name: "Pressão Alta", BaseTime: "08:00", Frequency: models.FrequencyLegacy12h},
				{Name: "Diabetes", BaseTime: "12:00", Frequency: models.FrequencyLegacy24h},
				{Name: "Colesterol", BaseTime: "18:00", Frequency: models.FrequencyLegacy24h},
			},
			Address:         "Rua das Flores, 123 - Centro, Marília/SP",
			Phones:          []string{"(14) 3433-1234", "(14) 99123-4567"},
			CompanionPhones: []string{"(14) 99876-5432", "(14) 99765-4321"},
			HasSpareKey:     true,
			Plan:            models.PlanAmparo,
			RegisteredAt:    time.Date(2023, 9, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:                "idoso-2",
			Name:              "José Santos",
			Age:               82,
			MedicationRoutine: true,
			Medications: []models.Medication{
				{Name: "Coração", BaseTime: "07:00", Frequency: models.FrequencyLegacy8h},
				{Name: "Artrite", BaseTime: "13:00", Frequency: models.FrequencyLegacy24h},
			},
			Address:         "Av. República, 456 - Jardim São Paulo, Marília/SP",
			Phones:          []string{"(14) 3433-5678"},
			CompanionPhones: []string{"(14) 99876-1234"},
			HasSpareKey:     false,
			Plan:            models.PlanVidaPlus,
			RegisteredAt:    time.Date(2023, 8, 20, 14, 15, 0, 0, time.UTC),
		},
	}
}

// SeedCompanions returns the initial companion records.
func SeedCompanions() []models.Companion {
	return []models.Companion{
		{
			ID:           "acompanhante-1",
			Name:         "Carlos Silva",
			Age:          45,
			Relationship: "Filho",
			Address:      "Rua dos Ipês, 789 - Jardim Europa, Marília/SP",
			Phones:       []string{"(14) 99876-5432"},
			HasWhatsApp:  true,
			RegisteredAt: time.Date(2023, 9, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:           "acompanhante-2",
			Name:         "Ana Oliveira",
			Age:          38,
			Relationship: "Neta",
			Address:      "Av. Brasil, 123 - Centro, São Paulo/SP",
			Phones:       []string{"(11) 99876-1234"},
			HasWhatsApp:  true,
			RegisteredAt: time.Date(2023, 8, 20, 14, 15, 0, 0, time.UTC),
		},
	}
}

// SeedAlerts returns the initial alert records.
func SeedAlerts(now time.Time) []models.Alert {
	return []models.Alert{
		{
			ID:          "alerta-1",
			SubjectID:   "idoso-1",
			SubjectName: "Maria Silva",
			Category:    models.CategoryEmergency,
			Message:     "Botão de emergência acionado",
			CreatedAt:   now,
			Status:      models.StatusUnresolved,
		},
		{
			ID:          "alerta-2",
			SubjectID:   "idoso-2",
			SubjectName: "José Santos",
			Category:    models.CategoryMedication,
			Message:     "Medicamento não tomado: Pressão Alta - 08:00",
			CreatedAt:   now.Add(-time.Hour),
			Status:      models.StatusInProgress,
		},
	}
}
