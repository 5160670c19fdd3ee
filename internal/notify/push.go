package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"sentinela-alert/internal/config"
)

// PushClient posts notifications to an HTTP push gateway.
type PushClient struct {
	client *resty.Client
	logger *zap.Logger
}

// NewPushClient creates a push gateway client.
func NewPushClient(cfg *config.Config, logger *zap.Logger) *PushClient {
	client := resty.New().
		SetBaseURL(cfg.Push.GatewayURL).
		SetTimeout(time.Duration(cfg.Push.TimeoutSeconds) * time.Second).
		SetRetryCount(cfg.Push.RetryCount).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &PushClient{
		client: client,
		logger: logger,
	}
}

// Notify posts the notification to the gateway's /notifications endpoint.
func (p *PushClient) Notify(ctx context.Context, notification Notification) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(notification).
		Post("/notifications")
	if err != nil {
		return fmt.Errorf("push gateway request failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("push gateway returned %d: %s", resp.StatusCode(), resp.String())
	}

	p.logger.Debug("Push notification delivered",
		zap.String("subject_id", notification.SubjectID),
		zap.String("action", notification.Action),
	)
	return nil
}
