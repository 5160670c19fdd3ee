package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentinela-alert/internal/config"
	"sentinela-alert/internal/detector"
	"sentinela-alert/internal/models"
	"sentinela-alert/internal/notify"
	"sentinela-alert/internal/repository"
	"sentinela-alert/internal/store"
)

func setupMonitor(t *testing.T) (*Monitor, *repository.EldersRepository, *repository.AlertsRepository) {
	kv := store.NewMemoryKV()
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

	cfg := &config.Config{}
	cfg.Scheduler.PollInterval = 60
	cfg.Scheduler.DueWindowMinutes = 5

	monitor := NewMonitor(cfg, elders, detector.New(5*time.Minute), dispatcher, logger)
	return monitor, elders, alertsRepo
}

func TestSweep_DispatchesDueDoses(t *testing.T) {
	monitor, _, alertsRepo := setupMonitor(t)
	ctx := context.Background()

	// Seed data puts José Santos' heart medication at 07:00 every 8 hours.
	now := time.Date(2024, 3, 10, 6, 56, 0, 0, time.UTC)
	require.NoError(t, monitor.Sweep(ctx, now))

	alerts, err := alertsRepo.GetAlerts(ctx, "idoso-2")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Hora de tomar Coração - 07:00", alerts[0].Message)
	assert.Equal(t, models.CategoryMedication, alerts[0].Category)
}

func TestSweep_RepeatedSweepsDoNotDuplicate(t *testing.T) {
	monitor, _, alertsRepo := setupMonitor(t)
	ctx := context.Background()

	require.NoError(t, monitor.Sweep(ctx, time.Date(2024, 3, 10, 6, 56, 0, 0, time.UTC)))
	require.NoError(t, monitor.Sweep(ctx, time.Date(2024, 3, 10, 6, 57, 0, 0, time.UTC)))

	alerts, err := alertsRepo.GetAlerts(ctx, "idoso-2")
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestSweep_NothingDue(t *testing.T) {
	monitor, _, alertsRepo := setupMonitor(t)
	ctx := context.Background()

	require.NoError(t, monitor.Sweep(ctx, time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)))

	alerts, err := alertsRepo.GetAlerts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestSweep_DisabledRoutineIgnored(t *testing.T) {
	monitor, elders, alertsRepo := setupMonitor(t)
	ctx := context.Background()

	elder, err := elders.GetElder(ctx, "idoso-2")
	require.NoError(t, err)
	elder.MedicationRoutine = false
	require.NoError(t, elders.SaveElder(ctx, *elder))

	require.NoError(t, monitor.Sweep(ctx, time.Date(2024, 3, 10, 6, 56, 0, 0, time.UTC)))

	alerts, err := alertsRepo.GetAlerts(ctx, "idoso-2")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	monitor, _, _ := setupMonitor(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- monitor.Start(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop on context cancel")
	}
}
