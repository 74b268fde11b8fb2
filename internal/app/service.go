// Package service runs the season: it applies administrative mutations as
// serialized read-modify-write cycles against the repository, answers
// leaderboard queries and notifies observers about persisted changes.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	eventqueue "github.com/okian/fantasybakes/internal/adapters/mq/queue"
	"github.com/okian/fantasybakes/internal/adapters/mq/worker"
	"github.com/okian/fantasybakes/internal/adapters/repository"
	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/internal/domain/scoring"
	"github.com/okian/fantasybakes/internal/domain/season"
	"github.com/okian/fantasybakes/pkg/logger"
	"github.com/okian/fantasybakes/pkg/metrics"
)

const (
	tracerName            = "fantasybakes/app"
	defaultQueueSize      = 1024
	defaultMaxWeeks       = 10
	defaultAdminPerMinute = 10
	shutdownTimeout       = 5 * time.Second
)

// Service implements the season operations.
type Service struct {
	mu      sync.RWMutex // lifecycle
	writeMu sync.Mutex   // one read-modify-write at a time

	repo       repository.Store
	calc       *scoring.Calculator
	queue      *eventqueue.InMemoryQueue
	dispatcher *worker.Dispatcher
	limiter    *rate.Limiter
	tracer     trace.Tracer

	// Configuration
	rules          map[string]float64
	maxWeeks       int
	adminPassword  string
	adminPerMinute int
	queueSize      int

	// State
	started  bool
	stopping bool
	cancel   context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxWeeks:       defaultMaxWeeks,
		adminPerMinute: defaultAdminPerMinute,
		queueSize:      defaultQueueSize,
		tracer:         otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.calc = scoring.NewCalculator(scoring.WithRulesFromConfig(s.rules))
	s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.adminPerMinute)), s.adminPerMinute)
	return s
}

// Start initializes the notification pipeline and checks the repository.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting season service...")

	if s.repo == nil {
		s.repo = repository.NewMemoryStore(&model.Season{CurrentWeek: 1})
		s.logger.Info(ctx, "using in-memory season store")
	}

	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.dispatcher = worker.NewDispatcher(s.queue, worker.WithLogger(s.logger.Named("dispatcher")))
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.dispatcher.Start(runCtx)
	s.started = true

	if sz, err := s.repo.Load(ctx); err != nil {
		s.logger.Warn(ctx, "no season loaded yet", logger.Error(err))
	} else {
		s.updateSeasonMetrics(sz)
		s.logger.Info(ctx, "season loaded",
			logger.String("season", sz.Name),
			logger.Int("currentWeek", sz.CurrentWeek),
			logger.Int("weeks", len(sz.Weeks)),
			logger.Int("teams", len(sz.Teams)),
		)
	}

	s.logger.Info(ctx, "season service started",
		logger.Int("maxWeeks", s.maxWeeks),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("adminEnabled", s.adminPassword != ""),
	)
	return nil
}

// Stop delivers pending notifications and shuts the service down. Reads
// keep working while the queue drains so observers can query the season.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started || s.stopping {
		s.mu.Unlock()
		return
	}
	s.stopping = true
	dispatcher, cancelRun, repo, log := s.dispatcher, s.cancel, s.repo, s.logger
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info(ctx, "stopping season service...")
	if err := dispatcher.Shutdown(ctx); err != nil {
		log.Warn(ctx, "dispatcher shutdown", logger.Error(err))
	}
	cancelRun()

	if closer, ok := repo.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warn(ctx, "closing repository", logger.Error(err))
		}
	}

	s.mu.Lock()
	s.started = false
	s.stopping = false
	s.mu.Unlock()
	log.Info(ctx, "season service stopped")
}

// Subscribe registers an observer for persisted changes. The returned func
// removes it again.
func (s *Service) Subscribe(o worker.Observer) (func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.dispatcher.Subscribe(o), nil
}

// Rules returns the scoring rule set in effect.
func (s *Service) Rules() scoring.RuleSet { return s.calc.Rules() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":   s.started,
		"maxWeeks":  s.maxWeeks,
		"queueSize": s.queueSize,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(context.Background())
		stats["observers"] = s.dispatcher.Observers()
		stats["delivered"] = s.dispatcher.Delivered()
	}
	return stats
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// snapshot loads the season with every cached total rewritten from its flags.
func (s *Service) snapshot(ctx context.Context) (*model.Season, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	sz, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	season.New(sz).RecomputeTotals(s.calc)
	return sz, nil
}

// mutation changes the season in place and describes what it changed. A
// false result means the input was rejected and nothing is saved.
type mutation func(st *season.Store) (model.Change, bool)

// mutate runs one serialized load, change, save and publish cycle.
func (s *Service) mutate(ctx context.Context, op string, fn mutation, attrs ...attribute.KeyValue) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "season."+op, trace.WithAttributes(attrs...))
	defer span.End()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	sz, err := s.snapshot(ctx)
	if err != nil {
		s.fail(ctx, span, op, "load failed", err)
		return false, err
	}
	st := season.New(sz)
	change, ok := fn(st)
	span.SetAttributes(attribute.Bool("applied", ok))
	if !ok {
		s.logger.Debug(ctx, "mutation rejected",
			logger.String("op", op),
			logger.String("season", sz.Name),
		)
		return false, nil
	}

	if err := s.repo.Save(ctx, sz); err != nil {
		s.fail(ctx, span, op, "save failed", err)
		return false, err
	}
	s.updateSeasonMetrics(sz)
	s.publish(ctx, change)

	s.logger.Debug(ctx, "mutation saved",
		logger.String("op", op),
		logger.String("season", sz.Name),
		logger.Int("week", change.Week),
		logger.String("bakerId", change.BakerID),
		logger.String("teamId", change.TeamID),
	)
	return true, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, op, msg string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	if errors.Is(err, ErrNotStarted) {
		return
	}
	s.logger.Error(ctx, msg, logger.String("op", op), logger.Error(err))
}

func (s *Service) publish(ctx context.Context, c model.Change) {
	if !s.queue.Enqueue(ctx, c) {
		s.logger.Warn(ctx, "change notification dropped",
			logger.String("kind", string(c.Kind)),
			logger.String("changeId", c.ID),
		)
	}
}

func (s *Service) updateSeasonMetrics(sz *model.Season) {
	active := 0
	for _, b := range sz.Bakers {
		if !b.Eliminated {
			active++
		}
	}
	metrics.UpdateSeasonState(sz.CurrentWeek, len(sz.Weeks), active)
}
