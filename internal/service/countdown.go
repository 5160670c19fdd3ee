package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Countdown arms a delayed dispatch for emergency and health-check triggers.
// If nobody intervenes before the deadline, the action fires as if it had been
// confirmed; Confirm fires it immediately and Cancel disarms it. Each countdown
// dispatches at most once.
type Countdown struct {
	dispatcher *Dispatcher
	logger     *zap.Logger

	subjectID   string
	subjectName string
	action      string
	message     string

	timer *time.Timer
	once  sync.Once
	done  chan struct{}
}

// StartCountdown arms a countdown that auto-confirms after the given delay.
func StartCountdown(
	dispatcher *Dispatcher,
	logger *zap.Logger,
	delay time.Duration,
	subjectID, subjectName, action, message string,
) *Countdown {
	c := &Countdown{
		dispatcher:  dispatcher,
		logger:      logger,
		subjectID:   subjectID,
		subjectName: subjectName,
		action:      action,
		message:     message,
		done:        make(chan struct{}),
	}

	c.timer = time.AfterFunc(delay, func() {
		c.fire("timeout")
	})

	logger.Info("Countdown armed",
		zap.String("subject_id", subjectID),
		zap.String("action", action),
		zap.Duration("delay", delay),
	)

	return c
}

// Confirm fires the dispatch immediately.
func (c *Countdown) Confirm() {
	c.timer.Stop()
	c.fire("confirmed")
}

// Cancel disarms the countdown without dispatching.
func (c *Countdown) Cancel() {
	c.timer.Stop()
	c.once.Do(func() {
		c.logger.Info("Countdown cancelled",
			zap.String("subject_id", c.subjectID),
			zap.String("action", c.action),
		)
		close(c.done)
	})
}

// Done is closed once the countdown resolved, by dispatch or cancellation.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

func (c *Countdown) fire(reason string) {
	c.once.Do(func() {
		defer close(c.done)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.dispatcher.Dispatch(ctx, c.subjectID, c.subjectName, c.action, c.message); err != nil {
			c.logger.Error("Countdown dispatch failed",
				zap.String("subject_id", c.subjectID),
				zap.String("action", c.action),
				zap.Error(err),
			)
			return
		}

		c.logger.Info("Countdown dispatched",
			zap.String("subject_id", c.subjectID),
			zap.String("action", c.action),
			zap.String("reason", reason),
		)
	})
}
