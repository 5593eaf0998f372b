package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"frontdesk/internal/api"
	"frontdesk/internal/config"
	"frontdesk/internal/database"
	"frontdesk/internal/domain"
	"frontdesk/internal/events"
	"frontdesk/internal/google"
	"frontdesk/internal/logging"
	"frontdesk/internal/metrics"
	"frontdesk/internal/notify"
	"frontdesk/internal/repository"
	"frontdesk/internal/service"
	"frontdesk/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	roomCache := initRoomCache(cfg, redisClient, &logger)

	sheetsService := initGoogleSheets(ctx, cfg, &logger)

	// Экспорт отчётов: xlsx всегда, Google Sheets если настроен
	builder := worker.NewExcelReportBuilder(db, cfg.Exports.Path, &logger)
	var sheets domain.SheetsWriter
	if sheetsService != nil {
		sheets = sheetsService
	}
	exportWorker := worker.NewExportWorker(db, builder, sheets, redisClient, worker.RetryPolicy{}, nil)
	go exportWorker.Start(ctx)

	eventBus := events.NewEventBus()

	rooms := service.NewRoomService(
		db, roomCache, eventBus,
		cfg.FrontDesk.DefaultCheckInTime,
		cfg.FrontDesk.DefaultCheckOutTime,
		cfg.FrontDesk.MaxStayDays,
		&logger,
	)
	cash := service.NewCashService(db, exportWorker, &logger)
	timeclock := service.NewTimeclockService(db, &logger)
	notes := service.NewNoteService(db, &logger)

	if err := startAlerter(cfg, roomCache, eventBus, &logger); err != nil {
		return err
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	if sheetsService != nil {
		go runNightlyOccupancyExport(ctx, exportWorker, &logger)
	}

	startMetrics(ctx, cfg, &logger)

	httpServer := api.NewHTTPServer(cfg.API, rooms, cash, timeclock, notes)
	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "frontdesk-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("create database directory")
		return err
	}
	if cfg.Exports.Path != "" {
		if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
			logger.Error().Err(err).Msg("create exports directory")
			return err
		}
	}
	return nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	if err := db.SeedRooms(context.Background(), cfg.Rooms); err != nil {
		logger.Error().Err(err).Msg("seed rooms")
	}
	return db, nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initRoomCache builds the failover pair: Redis-backed snapshots with an
// in-memory fallback for the offline desk.
func initRoomCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.RoomCache {
	ttl := time.Duration(cfg.FrontDesk.CacheTTLSeconds) * time.Second
	fallback := repository.NewMemoryRoomCache(ttl)
	if redisClient == nil {
		return fallback
	}
	primary := repository.NewRedisRoomCache(redisClient, ttl)
	return repository.NewFailoverRoomCache(primary, fallback, logger)
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.ReportsSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.GoogleCredentialsFile, cfg.Google.ReportsSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	if err := sheetsService.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("google sheets connection test failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func startAlerter(cfg *config.Config, cache domain.RoomCache, bus *events.EventBus, logger *zerolog.Logger) error {
	if cfg.Telegram.BotToken == "" {
		return nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("create telegram bot")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	alerter := notify.NewAlerter(botAPI, cache, cfg.Telegram.ManagerChatID, logger)
	alerter.SubscribeAll(bus)
	logger.Info().Int64("chat_id", cfg.Telegram.ManagerChatID).Msg("telegram alerts enabled")
	return nil
}

// runNightlyOccupancyExport pushes one occupancy snapshot per day so
// the owner's spreadsheet stays current without anyone asking.
func runNightlyOccupancyExport(ctx context.Context, w *worker.ExportWorker, logger *zerolog.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.EnqueueOccupancyExport(ctx, time.Now()); err != nil {
				logger.Error().Err(err).Msg("enqueue nightly occupancy export")
			}
		}
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("front desk started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("front desk stopped")
	return nil
}
