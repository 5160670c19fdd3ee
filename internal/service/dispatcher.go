package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/notify"
	"sentinela-alert/internal/repository"
)

// Dispatcher actions. Each action always produces an activity record; all but
// mensagem and chamada also open an alert.
const (
	ActionCheckIn     = "check-in"
	ActionMedication  = "remedio"
	ActionEmergency   = "emergencia"
	ActionHealthCheck = "verificacao"
	ActionMessage     = "mensagem"
	ActionCall        = "chamada"
)

// alertCategories maps each alert-producing action to its alert category.
var alertCategories = map[string]string{
	ActionCheckIn:     models.CategoryCheckIn,
	ActionMedication:  models.CategoryMedication,
	ActionEmergency:   models.CategoryEmergency,
	ActionHealthCheck: models.CategoryHealthCheck,
}

// Dispatcher fans one triggered action out to the activity log, the alert
// collection and the notification channels.
type Dispatcher struct {
	alerts     *AlertService
	activities *repository.ActivitiesRepository
	elders     *repository.EldersRepository
	companions *repository.CompanionsRepository
	notifiers  []notify.Notifier
	dedup      DedupGuard
	logger     *zap.Logger
}

// NewDispatcher creates a dispatcher. Notifiers may be empty; dedup guards
// only medication reminders.
func NewDispatcher(
	alerts *AlertService,
	activities *repository.ActivitiesRepository,
	elders *repository.EldersRepository,
	companions *repository.CompanionsRepository,
	notifiers []notify.Notifier,
	dedup DedupGuard,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		alerts:     alerts,
		activities: activities,
		elders:     elders,
		companions: companions,
		notifiers:  notifiers,
		dedup:      dedup,
		logger:     logger,
	}
}

// Dispatch records the action and notifies companions. The activity record is
// written first and is the only mandatory effect; notification failures are
// logged and swallowed.
func (d *Dispatcher) Dispatch(ctx context.Context, subjectID, subjectName, action, message string) error {
	activity := models.Activity{
		ID:          uuid.New().String(),
		SubjectID:   subjectID,
		Category:    action,
		Description: message,
		Timestamp:   time.Now(),
	}
	if err := d.activities.AppendActivity(ctx, activity); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	if category, ok := alertCategories[action]; ok {
		if _, err := d.alerts.Create(ctx, subjectID, category, message); err != nil {
			return err
		}
	}

	d.notifyAll(ctx, notify.Notification{
		SubjectID:   subjectID,
		SubjectName: subjectName,
		Action:      action,
		Message:     message,
		Sound:       notify.SoundFor(action),
		Recipients:  d.linkedCompanionNames(ctx, subjectID),
		Timestamp:   activity.Timestamp,
	})

	return nil
}

// linkedCompanionNames resolves the companions sharing a phone number with
// the elder. Lookup failures degrade to an unaddressed notification.
func (d *Dispatcher) linkedCompanionNames(ctx context.Context, subjectID string) []string {
	elder, err := d.elders.GetElder(ctx, subjectID)
	if err != nil {
		return nil
	}

	linked, err := d.companions.FindLinked(ctx, *elder)
	if err != nil {
		d.logger.Warn("Failed to resolve linked companions",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		return nil
	}

	names := make([]string, 0, len(linked))
	for _, companion := range linked {
		names = append(names, companion.Name)
	}
	return names
}

// DispatchDueDose announces one due dose, at most once per scheduled time.
func (d *Dispatcher) DispatchDueDose(ctx context.Context, due models.DueDose) error {
	first, err := d.dedup.Mark(ctx, due.Elder.ID, due.Occurrence.MedicationName, due.Occurrence.ScheduledAt)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	message := DueDoseMessage(due)
	if err := d.Dispatch(ctx, due.Elder.ID, due.Elder.Name, ActionMedication, message); err != nil {
		// Release the marker so the next sweep can retry the reminder.
		if unmarkErr := d.dedup.Unmark(ctx, due.Elder.ID, due.Occurrence.MedicationName, due.Occurrence.ScheduledAt); unmarkErr != nil {
			d.logger.Warn("Failed to release reminder marker",
				zap.String("subject_id", due.Elder.ID),
				zap.String("medication", due.Occurrence.MedicationName),
				zap.Error(unmarkErr),
			)
		}
		return err
	}

	d.logger.Info("Dose reminder dispatched",
		zap.String("subject_id", due.Elder.ID),
		zap.String("medication", due.Occurrence.MedicationName),
		zap.Time("scheduled_at", due.Occurrence.ScheduledAt),
	)

	return nil
}

// DueDoseMessage formats the reminder text shown to companions.
func DueDoseMessage(due models.DueDose) string {
	return fmt.Sprintf("Hora de tomar %s - %s",
		due.Occurrence.MedicationName,
		due.Occurrence.ScheduledAt.Format("15:04"),
	)
}

func (d *Dispatcher) notifyAll(ctx context.Context, notification notify.Notification) {
	for _, notifier := range d.notifiers {
		if err := notifier.Notify(ctx, notification); err != nil {
			d.logger.Warn("Notification delivery failed",
				zap.String("subject_id", notification.SubjectID),
				zap.String("action", notification.Action),
				zap.Error(err),
			)
		}
	}
}

// IsAlertAction reports whether the action opens an alert in addition to the
// activity record.
func IsAlertAction(action string) bool {
	_, ok := alertCategories[action]
	return ok
}
