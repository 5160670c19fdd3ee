package notify

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"sentinela-alert/internal/config"
)

// MQTTNotifier publishes notifications on a per-elder topic so companion
// devices can subscribe to just the elders they follow.
type MQTTNotifier struct {
	client      mqtt.Client
	qos         byte
	topicPrefix string
	logger      *zap.Logger
}

// NewMQTTNotifier connects to the broker and returns a notifier.
func NewMQTTNotifier(cfg *config.Config, logger *zap.Logger) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	opts.SetClientID(cfg.MQTT.ClientID)

	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
	}
	if cfg.MQTT.Password != "" {
		opts.SetPassword(cfg.MQTT.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	logger.Info("Connected to MQTT broker",
		zap.String("broker", cfg.MQTT.Broker),
		zap.String("client_id", cfg.MQTT.ClientID),
	)

	return &MQTTNotifier{
		client:      client,
		qos:         cfg.MQTT.QoS,
		topicPrefix: cfg.MQTT.TopicPrefix,
		logger:      logger,
	}, nil
}

// Notify publishes the notification as JSON on the elder's topic.
func (n *MQTTNotifier) Notify(_ context.Context, notification Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	topic := n.topicPrefix + notification.SubjectID
	token := n.client.Publish(topic, n.qos, false, payload)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}

	n.logger.Debug("Notification published",
		zap.String("topic", topic),
		zap.String("action", notification.Action),
	)
	return nil
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() {
	n.client.Disconnect(250)
}
