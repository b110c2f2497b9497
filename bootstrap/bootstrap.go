// Package bootstrap wires configuration into the running services.
// It is shared by the HTTP server and the console client.
package bootstrap

import (
	"context"
	"fmt"

	"medivoice/config"
	"medivoice/database"
	appointmentRepo "medivoice/database/repository/appointment"
	"medivoice/services/booking"
	"medivoice/services/catalog"
	ai "medivoice/services/intelligence"
	"medivoice/services/tasks"
	"medivoice/services/voice"
	"medivoice/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Components are the long-lived services built from configuration.
type Components struct {
	Catalog      *catalog.Catalog
	Appointments appointmentRepo.AppointmentRepository
	Scheduler    *booking.Scheduler
	Assistant    *ai.Assistant
	Transcriber  voice.Transcriber

	MongoClient *mongo.Client
	RedisClient *redis.Client

	closers []func() error
}

// Build constructs every component the configuration asks for. On error,
// whatever was already opened is closed.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *Components, err error) {
	c := &Components{}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	c.Catalog, err = config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	logger.Info("Doctor catalog loaded", zap.Int("doctors", len(c.Catalog.ListDoctors())))

	switch cfg.StoreBackend {
	case "mongo":
		client, err := database.InitDB(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		c.MongoClient = client
		c.closers = append(c.closers, func() error { return database.CloseDB(context.Background()) })

		repo := appointmentRepo.NewMongoAppointmentRepo(client.Database(cfg.DatabaseName))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure appointment indexes: %w", err)
		}
		c.Appointments = repo
	default:
		c.Appointments = appointmentRepo.NewMemoryAppointmentRepo()
	}

	var notifier booking.Notifier
	if cfg.RemindersEnabled {
		client := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisReminderDB,
		})
		c.closers = append(c.closers, client.Close)
		notifier = tasks.NewReminderScheduler(client, c.Catalog, cfg.ReminderLead(), logger)
	}
	c.Scheduler = booking.NewScheduler(c.Catalog, c.Appointments, notifier, logger)

	var store ai.ContextStore
	switch cfg.ContextBackend {
	case "redis":
		client, err := utils.InitContextCache(cfg)
		if err != nil {
			return nil, err
		}
		c.RedisClient = client
		c.closers = append(c.closers, client.Close)
		store = ai.NewRedisContextStore(client, cfg.SessionTTL())
	default:
		store = ai.NewMemoryContextStore(cfg.SessionCacheSize, cfg.SessionTTL())
	}

	var interpreter ai.Interpreter
	switch cfg.Interpreter {
	case "gemini":
		gen, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, gen.Close)
		interpreter = ai.NewGeminiInterpreter(gen, c.Catalog, logger)
	default:
		interpreter = ai.NewLocalInterpreter(c.Catalog)
	}
	c.Assistant = ai.NewAssistant(c.Scheduler, interpreter, store, logger)

	if cfg.STTEnabled {
		transcriber, err := voice.NewGoogleTranscriber(ctx, cfg.GoogleServiceAccountFile)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, transcriber.Close)
		c.Transcriber = transcriber
	}

	logger.Info("Services ready",
		zap.String("store", cfg.StoreBackend),
		zap.String("sessions", cfg.ContextBackend),
		zap.String("interpreter", cfg.Interpreter),
		zap.Bool("stt", cfg.STTEnabled),
		zap.Bool("reminders", cfg.RemindersEnabled),
	)
	return c, nil
}

// Close releases clients in reverse order of creation.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			utils.GetLogger().Warn("Failed to close component", zap.Error(err))
		}
	}
	c.closers = nil
}
