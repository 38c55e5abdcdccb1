package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/config"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/database"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/handler"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/recording"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/registry"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/router"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/service"
)

// API is the HTTP + WebSocket signaling application.
type API struct {
	cfg    *config.Config
	srv    *http.Server
	db     *gorm.DB
	logger *zap.Logger
}

// NewAPI creates the API application: validates config, runs migrations,
// opens DB, builds the registry/recorder/hub and the router.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	logger, _ := zap.NewProduction()
	if cfg.AppEnv == "development" {
		logger, _ = zap.NewDevelopment()
	}

	reg := registry.New(logger)
	recorder, err := recording.NewTracker(cfg.RecordingsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}

	hub := service.NewHub(reg, recorder, cfg.WSMaxMessageSize, cfg.WSReadBufferSize, cfg.WSWriteBufferSize, logger)
	callSvc := service.NewCallService(db, logger)
	hub.SetJournal(callSvc)
	dispatcher := service.NewCallDispatcher(reg, logger)

	callHandler := handler.NewCallHandler(dispatcher, callSvc, reg, recorder, cfg.WSBaseURL, logger)
	signalWS := handler.NewSignalWSHandler(hub, logger)
	health := handler.NewHealthHandler()

	r := router.New(callHandler, signalWS, health)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, srv: srv, db: db, logger: logger}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled; then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	addr := a.srv.Addr
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", addr)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  Calls:         %s/calls", base)
	log.Printf("  Doctors:       %s/doctors/online", base)
	log.Printf("  Recordings:    %s/recordings/active", base)
	log.Printf("  WebSocket:     ws://%s:%s/ws/signal", host, a.cfg.HTTPPort)

	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.srv.Shutdown(shutdownCtx)
	_ = a.logger.Sync()
	if err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
