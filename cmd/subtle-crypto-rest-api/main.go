// cmd/subtle-crypto-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/MGTheTrain/subtle-crypto-vault/internal/api/rest/v1"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/app"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/persistence"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/taskqueue"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/config"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../../configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close(log)

	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db      *gorm.DB
	pool    *taskqueue.WorkerPool
	engine  crypto.SubtleCrypto
	keyring keys.KeyringService
}

// close drains the worker pool before releasing the database
func (d *appDependencies) close(log logger.Logger) {
	d.pool.Close()
	if err := persistence.CloseDB(d.db); err != nil {
		log.Error("failed to close database: ", err)
	}
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	if err := persistence.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	keyRepo, err := persistence.NewGormKeyRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create key repository: %w", err)
	}

	pool, err := taskqueue.NewWorkerPool(taskqueue.Config{
		WorkerCount:  cfg.Engine.WorkerCount,
		GlobalBuffer: cfg.Engine.QueueSize,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	engine, err := initializeEngine(pool, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	keyringService, err := app.NewKeyringService(engine, keyRepo, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create keyring service: %w", err)
	}

	return &appDependencies{
		db:      db,
		pool:    pool,
		engine:  engine,
		keyring: keyringService,
	}, nil
}

// initializeEngine sets up the cryptographic processors and the subtle crypto engine on top of them
func initializeEngine(scheduler crypto.Scheduler, log logger.Logger) (crypto.SubtleCrypto, error) {
	aesProcessor, err := cryptography.NewAESProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES processor: %w", err)
	}

	pbkdf2Processor, err := cryptography.NewPBKDF2Processor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create PBKDF2 processor: %w", err)
	}

	digestProcessor, err := cryptography.NewDigestProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest processor: %w", err)
	}

	log.Info("Cryptographic processors initialized successfully")
	return app.NewSubtleCryptoService(scheduler, aesProcessor, pbkdf2Processor, digestProcessor, log)
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled() {
		r.Use(v1.RateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))
		log.Info("Rate limiting enabled at ", cfg.RateLimit.RequestsPerMinute, " requests per minute")
	}

	v1.SetupRoutes(r, deps.engine, deps.keyring)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
