package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/notify"
	"sentinela-alert/internal/repository"
	"sentinela-alert/internal/store"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification notify.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return nil
}

func (n *recordingNotifier) notifications() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification{}, n.sent...)
}

func setupDispatcher(t *testing.T) (*Dispatcher, *recordingNotifier, *repository.AlertsRepository, *repository.ActivitiesRepository) {
	kv := store.NewMemoryKV()
	logger := zap.NewNop()
	ctx := context.Background()

	alertsRepo := repository.NewAlertsRepository(kv, logger)
	require.NoError(t, alertsRepo.ClearAll(ctx))

	elders := repository.NewEldersRepository(kv, logger)
	companions := repository.NewCompanionsRepository(kv, logger)
	activities := repository.NewActivitiesRepository(kv, logger)
	notifier := &recordingNotifier{}

	dispatcher := NewDispatcher(
		NewAlertService(alertsRepo, elders, logger),
		activities,
		elders,
		companions,
		[]notify.Notifier{notifier},
		NewMemoryDedupGuard(),
		logger,
	)

	return dispatcher, notifier, alertsRepo, activities
}

func TestDispatch_EmergencyOpensAlert(t *testing.T) {
	dispatcher, notifier, alertsRepo, activities := setupDispatcher(t)
	ctx := context.Background()

	err := dispatcher.Dispatch(ctx, "idoso-1", "Maria Silva", ActionEmergency, "Botão de emergência acionado")
	require.NoError(t, err)

	alerts, err := alertsRepo.GetAlerts(ctx, "idoso-1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.CategoryEmergency, alerts[0].Category)
	assert.Equal(t, models.StatusUnresolved, alerts[0].Status)
	assert.Equal(t, "Maria Silva", alerts[0].SubjectName)

	acts, err := activities.GetActivities(ctx, "idoso-1")
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, ActionEmergency, acts[0].Category)

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "emergencia.mp3", sent[0].Sound)
	assert.Equal(t, []string{"Carlos Silva"}, sent[0].Recipients)
}

func TestDispatch_MessageSkipsAlert(t *testing.T) {
	dispatcher, notifier, alertsRepo, activities := setupDispatcher(t)
	ctx := context.Background()

	err := dispatcher.Dispatch(ctx, "idoso-1", "Maria Silva", ActionMessage, "Nova mensagem de Carlos")
	require.NoError(t, err)

	alerts, err := alertsRepo.GetAlerts(ctx, "idoso-1")
	require.NoError(t, err)
	assert.Empty(t, alerts)

	acts, err := activities.GetActivities(ctx, "idoso-1")
	require.NoError(t, err)
	assert.Len(t, acts, 1)

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "mensagem.mp3", sent[0].Sound)
}

func TestDispatchDueDose_OncePerScheduledTime(t *testing.T) {
	dispatcher, notifier, alertsRepo, _ := setupDispatcher(t)
	ctx := context.Background()

	due := models.DueDose{
		Elder: models.Elder{ID: "idoso-1", Name: "Maria Silva"},
		Occurrence: models.DoseOccurrence{
			MedicationName: "Pressão Alta",
			ScheduledAt:    time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, dispatcher.DispatchDueDose(ctx, due))
	require.NoError(t, dispatcher.DispatchDueDose(ctx, due))

	alerts, err := alertsRepo.GetAlerts(ctx, "idoso-1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Hora de tomar Pressão Alta - 08:00", alerts[0].Message)
	assert.Equal(t, models.CategoryMedication, alerts[0].Category)

	assert.Len(t, notifier.notifications(), 1)
}

func TestDispatchDueDose_SecondDoseIsSeparate(t *testing.T) {
	dispatcher, _, alertsRepo, _ := setupDispatcher(t)
	ctx := context.Background()

	elder := models.Elder{ID: "idoso-2", Name: "José Santos"}
	first := models.DueDose{
		Elder: elder,
		Occurrence: models.DoseOccurrence{
			MedicationName: "Coração",
			ScheduledAt:    time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC),
		},
	}
	second := first
	second.Occurrence.ScheduledAt = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, dispatcher.DispatchDueDose(ctx, first))
	require.NoError(t, dispatcher.DispatchDueDose(ctx, second))

	alerts, err := alertsRepo.GetAlerts(ctx, "idoso-2")
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

type failingKV struct {
	store.KV
	failSet bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("write rejected")
	}
	return f.KV.Set(ctx, key, value)
}

func TestDispatchDueDose_RetriedAfterFailedDispatch(t *testing.T) {
	kv := &failingKV{KV: store.NewMemoryKV()}
	logger := zap.NewNop()
	ctx := context.Background()

	alertsRepo := repository.NewAlertsRepository(kv, logger)
	require.NoError(t, alertsRepo.ClearAll(ctx))

	elders := repository.NewEldersRepository(kv, logger)
	dispatcher := NewDispatcher(
		NewAlertService(alertsRepo, elders, logger),
		repository.NewActivitiesRepository(kv, logger),
		elders,
		repository.NewCompanionsRepository(kv, logger),
		[]notify.Notifier{},
		NewMemoryDedupGuard(),
		logger,
	)

	due := models.DueDose{
		Elder: models.Elder{ID: "idoso-1", Name: "Maria Silva"},
		Occurrence: models.DoseOccurrence{
			MedicationName: "Pressão Alta",
			ScheduledAt:    time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
		},
	}

	kv.failSet = true
	require.Error(t, dispatcher.DispatchDueDose(ctx, due))

	// The failed dispatch must not consume the dose's reminder marker.
	kv.failSet = false
	require.NoError(t, dispatcher.DispatchDueDose(ctx, due))

	alerts, err := alertsRepo.GetAlerts(ctx, "idoso-1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Hora de tomar Pressão Alta - 08:00", alerts[0].Message)
}

func TestIsAlertAction(t *testing.T) {
	assert.True(t, IsAlertAction(ActionEmergency))
	assert.True(t, IsAlertAction(ActionCheckIn))
	assert.True(t, IsAlertAction(ActionHealthCheck))
	assert.True(t, IsAlertAction(ActionMedication))
	assert.False(t, IsAlertAction(ActionMessage))
	assert.False(t, IsAlertAction(ActionCall))
}
