package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskledger/taskledger-api/internal/config"
	"github.com/taskledger/taskledger-api/internal/platform/natsmsg"
	"github.com/taskledger/taskledger-api/internal/platform/postgres"
	"github.com/taskledger/taskledger-api/internal/platform/s3blob"
	"github.com/taskledger/taskledger-api/internal/service"
	"github.com/taskledger/taskledger-api/internal/service/auth"
	"github.com/taskledger/taskledger-api/internal/store"
	"github.com/taskledger/taskledger-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	itemStore       store.ItemStore
	categoryStore   store.CategoryStore
	userStore       store.UserStore
	auditStore      store.AuditStore
	attachmentStore store.AttachmentStore

	// Services
	jwtService        auth.JWTService
	userService       service.UserService
	itemService       service.ItemService
	dashboardService  service.DashboardService
	categoryService   service.CategoryService
	auditService      service.AuditService
	attachmentService service.AttachmentService // nil when no blob store is configured

	// Background processing
	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool

	// Outbound notifications
	publisher *natsmsg.Publisher // nil when NATS is not configured
}

// newApplication creates an application instance with all dependencies
// initialized. The worker pool is started before this returns.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"access_token_lifetime", cfg.Auth.AccessTokenLifetime,
		"refresh_token_lifetime", cfg.Auth.RefreshTokenLifetime)

	app.itemStore = postgres.NewPostgresItemStore(db, logger)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, logger)
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.auditStore = postgres.NewPostgresAuditStore(db, logger)
	app.attachmentStore = postgres.NewPostgresAttachmentStore(db, logger)

	// Background queue and workers; audit appends and notifications ride
	// on the same pool.
	app.taskQueue = task.NewTaskQueue(cfg.Task.QueueSize, logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Task.WorkerCount,
	}, logger)
	app.workerPool.SetErrorHandler(func(t task.Task, err error) {
		logger.Error("background task failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
	})
	app.workerPool.Start()

	sink, err := app.setupNotificationSink()
	if err != nil {
		return nil, err
	}

	auditor, err := service.NewAuditRecorder(app.taskQueue, app.auditStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit recorder: %w", err)
	}

	policy := service.NewAccessPolicy()
	verifier := auth.NewBcryptVerifier()

	app.userService, err = service.NewUserService(app.userStore, verifier, verifier, app.jwtService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.itemService, err = service.NewItemService(
		app.itemStore,
		app.categoryStore,
		policy,
		auditor,
		app.taskQueue,
		sink,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item service: %w", err)
	}

	app.dashboardService, err = service.NewDashboardService(
		app.itemStore,
		cfg.Dashboard.DueSoonDays,
		cfg.Dashboard.Timeout,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard service: %w", err)
	}

	app.categoryService, err = service.NewCategoryService(app.categoryStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %w", err)
	}

	app.auditService, err = service.NewAuditService(app.auditStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit service: %w", err)
	}

	if err := app.setupAttachmentService(ctx, policy); err != nil {
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupNotificationSink connects the NATS publisher when a URL is
// configured and falls back to the no-op sink otherwise.
func (app *application) setupNotificationSink() (store.NotificationSink, error) {
	if app.config.NATS.URL == "" {
		app.logger.Info("NATS not configured, item notifications disabled")
		return natsmsg.NoopSink{}, nil
	}

	publisher, err := natsmsg.Connect(app.config.NATS, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	app.publisher = publisher
	return publisher, nil
}

// setupAttachmentService initializes the blob store and attachment service
// when an S3 bucket is configured. Without one the attachment endpoints
// are simply not registered.
func (app *application) setupAttachmentService(ctx context.Context, policy *service.AccessPolicy) error {
	if app.config.S3.Bucket == "" {
		app.logger.Info("S3 not configured, attachment endpoints disabled")
		return nil
	}

	blobStore, err := s3blob.New(ctx, app.config.S3, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}

	app.attachmentService, err = service.NewAttachmentService(
		app.itemStore,
		app.attachmentStore,
		blobStore,
		policy,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create attachment service: %w", err)
	}
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources. Closing the
// queue first rejects new work; failed audit appends then fall back to the
// synchronous path until the server stops accepting requests.
func (app *application) cleanup() {
	if app.taskQueue != nil {
		app.taskQueue.Close()
	}
	if app.workerPool != nil {
		app.workerPool.Stop()
	}
	if app.publisher != nil {
		app.publisher.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
