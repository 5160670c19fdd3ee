package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"sentinela-alert/internal/config"
	"sentinela-alert/internal/detector"
	"sentinela-alert/internal/models"
	"sentinela-alert/internal/notify"
	"sentinela-alert/internal/report"
	"sentinela-alert/internal/repository"
	"sentinela-alert/internal/store"
)

// Service wires the record store, repositories, notifiers and the schedule
// monitor into one runnable unit.
type Service struct {
	config *config.Config
	logger *zap.Logger

	Elders     *repository.EldersRepository
	Companions *repository.CompanionsRepository
	Alerts     *AlertService
	Activities *repository.ActivitiesRepository
	Messages   *repository.MessagesRepository
	Dispatcher *Dispatcher
	Monitor    *Monitor
	Reports    *report.Exporter

	redisClient  *redis.Client
	db           *sql.DB
	mqttNotifier *notify.MQTTNotifier
}

// New builds the service for the configured store backend.
func New(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	s := &Service{
		config: cfg,
		logger: logger,
	}

	kv, dedup, err := s.buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	s.Elders = repository.NewEldersRepository(kv, logger)
	s.Companions = repository.NewCompanionsRepository(kv, logger)
	s.Activities = repository.NewActivitiesRepository(kv, logger)
	s.Messages = repository.NewMessagesRepository(kv, logger)

	alertsRepo := repository.NewAlertsRepository(kv, logger)
	s.Alerts = NewAlertService(alertsRepo, s.Elders, logger)
	s.Reports = report.NewExporter(alertsRepo, s.Activities, logger)

	notifiers, err := s.buildNotifiers(cfg, logger)
	if err != nil {
		return nil, err
	}

	s.Dispatcher = NewDispatcher(s.Alerts, s.Activities, s.Elders, s.Companions, notifiers, dedup, logger)

	window := time.Duration(cfg.Scheduler.DueWindowMinutes) * time.Minute
	s.Monitor = NewMonitor(cfg, s.Elders, detector.New(window), s.Dispatcher, logger)

	return s, nil
}

// Start runs the schedule monitor until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	return s.Monitor.Start(ctx)
}

// Stop releases the backend connections.
func (s *Service) Stop() {
	if s.mqttNotifier != nil {
		s.mqttNotifier.Close()
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("Failed to close database", zap.Error(err))
		}
	}

	s.logger.Info("Service stopped")
}

// CountdownDelay returns the configured auto-confirm window.
func (s *Service) CountdownDelay() time.Duration {
	return time.Duration(s.config.Scheduler.CountdownSeconds) * time.Second
}

// SendMessage stores a message in the elder's conversation and dispatches the
// message action (activity plus notification, no alert).
func (s *Service) SendMessage(ctx context.Context, elderID, text string) (*models.Message, error) {
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}

	subjectName := FallbackSubjectName
	if elder, err := s.Elders.GetElder(ctx, elderID); err == nil {
		subjectName = elder.Name
	}

	now := time.Now()
	message := models.Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sent:      true,
		SentAt:    now,
		ExpiresAt: now.Add(models.MessageTTL).UnixMilli(),
	}

	if err := s.Messages.AppendMessage(ctx, elderID, message); err != nil {
		return nil, err
	}

	if err := s.Dispatcher.Dispatch(ctx, elderID, subjectName, ActionMessage, text); err != nil {
		return nil, err
	}

	return &message, nil
}

func (s *Service) buildStore(cfg *config.Config, logger *zap.Logger) (store.KV, DedupGuard, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		s.redisClient = client

		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		return store.NewRedisKV(client, logger), NewRedisDedupGuard(client, cfg.Scheduler.DedupKeyPrefix), nil

	case config.BackendPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Password, cfg.Database.Database, cfg.Database.SSLMode,
		)

		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = db

		kv := store.NewPostgresKV(db, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := kv.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}

		logger.Info("Connected to PostgreSQL", zap.String("host", cfg.Database.Host))
		return kv, NewMemoryDedupGuard(), nil

	case config.BackendMemory:
		return store.NewMemoryKV(), NewMemoryDedupGuard(), nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func (s *Service) buildNotifiers(cfg *config.Config, logger *zap.Logger) ([]notify.Notifier, error) {
	notifiers := []notify.Notifier{}

	if cfg.MQTT.Broker != "" {
		mqttNotifier, err := notify.NewMQTTNotifier(cfg, logger)
		if err != nil {
			return nil, err
		}
		s.mqttNotifier = mqttNotifier
		notifiers = append(notifiers, mqttNotifier)
	}

	if cfg.Push.GatewayURL != "" {
		notifiers = append(notifiers, notify.NewPushClient(cfg, logger))
	}

	if len(notifiers) == 0 {
		logger.Warn("No notification channels configured, alerts will only be persisted")
	}

	return notifiers, nil
}
