package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/lpr/internal/api"
	"github.com/your-org/lpr/internal/api/ws"
	"github.com/your-org/lpr/internal/audit"
	"github.com/your-org/lpr/internal/auth"
	"github.com/your-org/lpr/internal/cache"
	"github.com/your-org/lpr/internal/config"
	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/observability"
	"github.com/your-org/lpr/internal/queue"
	"github.com/your-org/lpr/internal/search"
	"github.com/your-org/lpr/internal/storage"
	"github.com/your-org/lpr/internal/verify"
	"github.com/your-org/lpr/pkg/dto"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting LPR API service", "port", cfg.Server.Port)

	// Connect to Postgres
	db, err := storage.NewPostgresStore(cfg.Database, cfg.Throttle)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to MinIO
	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := minioStore.EnsureBucket(context.Background()); err != nil {
		slog.Warn("ensure minio bucket", "error", err)
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	formatter, err := search.NewFormatter(cfg.Display.Timezone, *cfg.Display.BuddhistEra)
	if err != nil {
		slog.Error("init display formatter", "error", err)
		os.Exit(1)
	}

	parts := cache.New(cfg.Cache)
	auditLog := audit.New(db)
	engine := search.NewEngine(db, parts, formatter)
	machine := verify.NewMachine(db, parts, auditLog)
	issuer := auth.NewTokenIssuer(cfg.Server.JWTSecret, cfg.Server.AccessTokenTTL, cfg.Server.RefreshTokenTTL)

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Consume detections from the OCR pipeline
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create detection consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeDetections(ctx, "api-detections", func(ctx context.Context, msg jetstream.Msg) error {
		var det models.PlateDetection
		if err := json.Unmarshal(msg.Data(), &det); err != nil {
			return err
		}

		cand := &models.PlateCandidate{
			Plate:              det.Plate,
			Province:           det.Province,
			CameraID:           det.CameraID,
			CameraName:         det.CameraName,
			CharConfidences:    det.CharConfidences,
			ProvinceConfidence: det.ProvinceConfidence,
			CreatedAt:          det.Timestamp,
		}
		if err := db.CreateCandidate(ctx, cand); err != nil {
			return err
		}
		observability.CandidatesIngested.WithLabelValues(cand.CameraID).Inc()

		fireAlerts(ctx, db, parts, producer, hub, formatter, cand)
		return nil
	})
	if err != nil {
		slog.Warn("start detection consumer", "error", err)
	}

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		Issuer:    issuer,
		DB:        db,
		MinIO:     minioStore,
		Producer:  producer,
		Cache:     parts,
		Engine:    engine,
		Machine:   machine,
		Formatter: formatter,
		Audit:     auditLog,
		Hub:       hub,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}

// fireAlerts raises an alert for every watchlist entry matching the
// candidate's plate text. Alert failures are logged; they never block
// candidate ingestion.
func fireAlerts(ctx context.Context, db *storage.PostgresStore, parts *cache.Partitions,
	producer *queue.Producer, hub *ws.Hub, formatter *search.Formatter, cand *models.PlateCandidate) {

	entries, err := db.ListWatchlist(ctx)
	if err != nil {
		slog.Error("load watchlist", "error", err)
		return
	}

	for _, entry := range entries {
		if !strings.EqualFold(entry.Plate, cand.Plate) {
			continue
		}

		alert := &models.Alert{
			WatchlistID: entry.ID,
			CandidateID: cand.ID,
			Plate:       cand.Plate,
			CameraName:  cand.CameraName,
			DetectedAt:  cand.CreatedAt,
		}
		if err := db.CreateAlert(ctx, alert); err != nil {
			slog.Error("create alert", "plate", cand.Plate, "error", err)
			continue
		}

		observability.AlertsFired.Inc()
		parts.InvalidateAlerts()

		event := &dto.AlertEvent{
			Type:        "watchlist_alert",
			AlertID:     alert.ID,
			CandidateID: cand.ID,
			Plate:       cand.Plate,
			CameraName:  cand.CameraName,
			DetectedAt:  formatter.Format(alert.DetectedAt),
		}
		hub.BroadcastAlert(event)

		if err := producer.PublishAlert(ctx, cand.Plate, event); err != nil {
			slog.Error("publish alert", "plate", cand.Plate, "error", err)
		}

		slog.Info("watchlist alert fired", "plate", cand.Plate, "camera", cand.CameraName)
	}
}
