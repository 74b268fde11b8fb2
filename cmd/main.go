package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	app "github.com/okian/fantasybakes/internal/app"
	"github.com/okian/fantasybakes/internal/config"
	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/pkg/logger"
	"github.com/okian/fantasybakes/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
	serviceStatsInterval  = time.Minute
)

func main() {
	if err := logger.Init(); err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "fantasybakes exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	repo, closeRepo, err := buildRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithRepository(repo),
		app.WithRules(cfg.ScoringRules),
		app.WithMaxWeeks(cfg.MaxWeeks),
		app.WithAdminPassword(cfg.AdminPassword),
		app.WithAdminRate(cfg.AdminAttemptsPerMinute),
		app.WithNotifyQueueSize(cfg.NotifyQueueSize),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	board := log.Named("leaderboard")
	if _, err := svc.Subscribe(func(ctx context.Context, c model.Change) {
		board.Info(ctx, "season changed",
			logger.String("kind", string(c.Kind)),
			logger.Int("week", c.Week),
			logger.String("bakerId", c.BakerID),
			logger.String("teamId", c.TeamID),
		)
		logLeaderboard(ctx, svc, board)
	}); err != nil {
		return err
	}
	logLeaderboard(ctx, svc, board)

	go startSystemMetricsUpdater(ctx)
	go startServiceStatsLogger(ctx, svc, log)

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		srv = newMetricsServer(cfg.MetricsAddr)
		go func() {
			log.Info(ctx, "starting metrics server", logger.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "metrics server failed", logger.Error(err))
			}
		}()
	}

	<-ctx.Done()
	log.Info(ctx, "shutting down...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
		}
	}
	return nil
}

func newMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// logLeaderboard writes the current standings, one record per team.
func logLeaderboard(ctx context.Context, svc *app.Service, log logger.Logger) {
	rows, err := svc.Standings(ctx, nil)
	if err != nil {
		log.Warn(ctx, "leaderboard unavailable", logger.Error(err))
		return
	}
	for _, r := range rows {
		log.Info(ctx, "standing",
			logger.Int("rank", r.Rank),
			logger.String("team", r.Name),
			logger.String("members", r.Members),
			logger.Float64("total", r.TotalScore),
			logger.Float64("currentWeek", r.CurrentWeekScore),
		)
	}
}

// startSystemMetricsUpdater periodically records process metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine())
		}
	}
}

// startServiceStatsLogger periodically logs service statistics at debug level.
func startServiceStatsLogger(ctx context.Context, svc *app.Service, log logger.Logger) {
	ticker := time.NewTicker(serviceStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Debug(ctx, "service stats", logger.Any("stats", svc.GetStats()))
		}
	}
}
