package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/repository"
)

// FallbackSubjectName labels alerts whose subject no longer resolves to a
// registered elder.
const FallbackSubjectName = "Idoso não identificado"

// AlertService manages the alert lifecycle.
type AlertService struct {
	alerts *repository.AlertsRepository
	elders *repository.EldersRepository
	logger *zap.Logger
}

// NewAlertService creates an alert service.
func NewAlertService(
	alerts *repository.AlertsRepository,
	elders *repository.EldersRepository,
	logger *zap.Logger,
) *AlertService {
	return &AlertService{
		alerts: alerts,
		elders: elders,
		logger: logger,
	}
}

// Create registers a new unresolved alert. The elder's display name is
// captured at creation time so the alert history survives later record
// changes; unknown subjects get the fallback name.
func (s *AlertService) Create(ctx context.Context, subjectID, category, message string) (*models.Alert, error) {
	return s.CreateWithStatus(ctx, subjectID, category, message, models.StatusUnresolved)
}

// CreateWithStatus registers a new alert with an explicit initial status.
// Informational alerts, such as resolution notices, are created already
// resolved so they never show up as open.
func (s *AlertService) CreateWithStatus(ctx context.Context, subjectID, category, message, status string) (*models.Alert, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subject id is required")
	}
	if message == "" {
		return nil, fmt.Errorf("alert message is required")
	}

	subjectName := FallbackSubjectName
	elder, err := s.elders.GetElder(ctx, subjectID)
	switch {
	case err == nil:
		subjectName = elder.Name
	case errors.Is(err, repository.ErrElderNotFound):
		s.logger.Warn("Alert subject not registered",
			zap.String("subject_id", subjectID),
		)
	default:
		return nil, err
	}

	alert := models.Alert{
		ID:          uuid.New().String(),
		SubjectID:   subjectID,
		SubjectName: subjectName,
		Category:    category,
		Message:     message,
		CreatedAt:   time.Now(),
		Status:      status,
	}

	if err := s.alerts.AppendAlert(ctx, alert); err != nil {
		return nil, err
	}

	s.logger.Info("Alert created",
		zap.String("alert_id", alert.ID),
		zap.String("subject_id", subjectID),
		zap.String("category", category),
	)

	return &alert, nil
}

// List returns alerts newest first, optionally filtered by subject.
func (s *AlertService) List(ctx context.Context, subjectID string) ([]models.Alert, error) {
	return s.alerts.GetAlerts(ctx, subjectID)
}

// UpdateStatus overwrites an alert's lifecycle status unconditionally. Any
// transition is allowed, including reopening a resolved alert, and the value
// itself is not checked against the known statuses.
func (s *AlertService) UpdateStatus(ctx context.Context, alertID, status string) (*models.Alert, error) {
	alert, err := s.alerts.UpdateStatus(ctx, alertID, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Alert status updated",
		zap.String("alert_id", alertID),
		zap.String("status", status),
	)

	return alert, nil
}

// Resolve marks an alert as resolved on behalf of the central and leaves the
// elder a resolution notice: a notification alert created already resolved.
func (s *AlertService) Resolve(ctx context.Context, alertID string) (*models.Alert, error) {
	alert, err := s.UpdateStatus(ctx, alertID, models.StatusResolved)
	if err != nil {
		return nil, err
	}

	notice := fmt.Sprintf("Seu alerta %q foi resolvido pela central", alert.Message)
	if _, err := s.CreateWithStatus(ctx, alert.SubjectID, models.CategoryNotification, notice, models.StatusResolved); err != nil {
		return nil, err
	}

	return alert, nil
}

// ClearAll removes every alert.
func (s *AlertService) ClearAll(ctx context.Context) error {
	if err := s.alerts.ClearAll(ctx); err != nil {
		return err
	}

	s.logger.Info("All alerts cleared")
	return nil
}

// ClearForSubject removes all alerts belonging to one elder.
func (s *AlertService) ClearForSubject(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return fmt.Errorf("subject id is required")
	}

	if err := s.alerts.ClearForSubject(ctx, subjectID); err != nil {
		return err
	}

	s.logger.Info("Alerts cleared for subject",
		zap.String("subject_id", subjectID),
	)
	return nil
}

// Counters returns the dashboard counters recomputed from the current alert
// collection.
func (s *AlertService) Counters(ctx context.Context) (models.AlertCounters, error) {
	return s.alerts.Counters(ctx)
}
