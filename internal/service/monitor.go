package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sentinela-alert/internal/config"
	"sentinela-alert/internal/detector"
	"sentinela-alert/internal/repository"
)

// Monitor polls the elder collection and dispatches reminders for doses
// coming due.
type Monitor struct {
	config     *config.Config
	elders     *repository.EldersRepository
	detector   *detector.Detector
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewMonitor creates a schedule monitor.
func NewMonitor(
	cfg *config.Config,
	elders *repository.EldersRepository,
	det *detector.Detector,
	dispatcher *Dispatcher,
	logger *zap.Logger,
) *Monitor {
	return &Monitor{
		config:     cfg,
		elders:     elders,
		detector:   det,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start runs the poll loop until the context is cancelled. A failed sweep is
// logged and retried on the next tick.
func (m *Monitor) Start(ctx context.Context) error {
	m.logger.Info("Schedule monitor started",
		zap.Int("poll_interval", m.config.Scheduler.PollInterval),
		zap.Int("due_window_minutes", m.config.Scheduler.DueWindowMinutes),
	)

	ticker := time.NewTicker(time.Duration(m.config.Scheduler.PollInterval) * time.Second)
	defer ticker.Stop()

	if err := m.Sweep(ctx, time.Now()); err != nil {
		m.logger.Error("Failed to sweep schedules on startup",
			zap.Error(err),
		)
	}

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Schedule monitor stopped")
			return nil
		case <-ticker.C:
			if err := m.Sweep(ctx, time.Now()); err != nil {
				m.logger.Error("Failed to sweep schedules",
					zap.Error(err),
				)
			}
		}
	}
}

// Sweep runs one detection pass over all elders at the given instant.
func (m *Monitor) Sweep(ctx context.Context, now time.Time) error {
	elders, err := m.elders.GetAllElders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load elders: %w", err)
	}

	due := m.detector.FindDue(elders, now)
	for _, dose := range due {
		if err := m.dispatcher.DispatchDueDose(ctx, dose); err != nil {
			m.logger.Error("Failed to dispatch dose reminder",
				zap.String("subject_id", dose.Elder.ID),
				zap.String("medication", dose.Occurrence.MedicationName),
				zap.Error(err),
			)
		}
	}

	return nil
}
