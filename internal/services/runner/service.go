package runner

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"agentsched/internal/frequency"
	"agentsched/internal/storage"
	"agentsched/pkg/logx"
)

// FailureFunc is called after every failed run. It must not block.
type FailureFunc func(item HistoryItem)

type Service struct {
	mu sync.Mutex

	log   logx.Logger
	cfg   Config
	loc   *time.Location
	store storage.Store // may be nil

	onFailure FailureFunc

	agents []AgentSpec

	queue chan task
	// limiter caps probe launches across all agent loops.
	limiter *rate.Limiter

	// runCancel is non-nil while running; Stop is the only canceler.
	runCtx    context.Context
	runCancel context.CancelFunc
	loopWG    sync.WaitGroup
	workerWG  sync.WaitGroup

	hmu     sync.Mutex
	history []HistoryItem
}

func New(cfg Config, store storage.Store, log logx.Logger) *Service {
	return &Service{cfg: cfg, store: store, log: log}
}

// SetFailureFunc installs the failed-run hook. Call before Start.
func (s *Service) SetFailureFunc(fn FailureFunc) {
	s.mu.Lock()
	s.onFailure = fn
	s.mu.Unlock()
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	en := s.cfg.Enabled
	s.mu.Unlock()
	return en
}

// Scheduler returns a frequency scheduler operating in the service's
// timezone, for building triggers.
func (s *Service) Scheduler() *frequency.Scheduler {
	return frequency.New(s.Location(), nil)
}

// Location resolves the configured timezone, falling back to UTC when
// the zone is unknown.
func (s *Service) Location() *time.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locationLocked()
}

// Apply replaces the config and agent set. A running service restarts
// so every trigger loop picks up the new definitions.
func (s *Service) Apply(cfg Config, agents []AgentSpec) {
	s.mu.Lock()
	running := s.runCancel != nil
	s.cfg = cfg
	s.agents = agents
	s.mu.Unlock()

	if running {
		s.Stop(context.Background())
		s.Start(context.Background())
	}
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.runCancel != nil || !s.cfg.Enabled {
		s.mu.Unlock()
		return
	}
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	s.queue = make(chan task, 64)
	s.limiter = nil
	if s.cfg.LaunchRatePerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(s.cfg.LaunchRatePerSec), s.cfg.LaunchRatePerSec)
	}
	// The run context outlives the Start caller's ctx: Stop is the only
	// canceler, mirroring an explicit stop channel.
	s.runCtx, s.runCancel = context.WithCancel(context.Background())
	runCtx := s.runCtx
	queue := s.queue
	s.loc = s.locationLocked()
	agents := s.agents
	s.mu.Unlock()

	for i := 0; i < workers; i++ {
		i := i
		s.workerWG.Add(1)
		go func() {
			defer s.workerWG.Done()
			s.worker(runCtx, queue, i)
		}()
	}
	for _, a := range agents {
		a := a
		s.loopWG.Add(1)
		go func() {
			defer s.loopWG.Done()
			s.agentLoop(runCtx, a)
		}()
	}
	s.log.Info("runner started",
		logx.Int("workers", workers),
		logx.String("tz", s.loc.String()),
		logx.Int("agents", len(agents)),
	)
}

func (s *Service) locationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		tz = frequency.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("invalid timezone, falling back to UTC", logx.String("tz", tz), logx.Err(err))
		return time.UTC
	}
	return loc
}

// Stop cancels all trigger loops and workers and waits for them, up to
// ctx's deadline.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	cancel := s.runCancel
	s.runCtx, s.runCancel = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	done := make(chan struct{})
	go func() {
		s.loopWG.Wait()
		s.workerWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info("runner stopped")
	case <-ctx.Done():
		s.log.Warn("runner stop timed out")
	}
}

func (s *Service) agentLoop(ctx context.Context, a AgentSpec) {
	log := s.log.With(logx.String("agent", a.Name))
	now := time.Now()
	next, desc, err := a.Trigger.Next(now)
	if err != nil {
		log.Error("trigger failed; agent disabled", logx.Err(err))
		return
	}

	// Resume a persisted pending run if it is still in the future, so
	// restarts don't reshuffle the schedule.
	if s.store != nil {
		if at, ok, gerr := s.store.GetNextRun(ctx, a.Name); gerr == nil && ok && at.After(now) {
			next = at
			desc = at.In(s.Location()).Format("Monday 2 January at 15:04")
		}
	}

	for {
		s.persistNextRun(a.Name, next)
		log.Info("next run scheduled",
			logx.Time("at", next),
			logx.Duration("in", time.Until(next)),
			logx.String("when", desc),
		)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case s.queue <- task{agent: a}:
		default:
			log.Warn("runner queue full, dropping run")
		}

		now = time.Now()
		next, desc, err = a.Trigger.Next(now)
		if err != nil {
			log.Error("trigger failed; agent disabled", logx.Err(err))
			return
		}
	}
}

func (s *Service) persistNextRun(agent string, at time.Time) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.store.PutNextRun(ctx, agent, at); err != nil {
		s.log.Warn("persist next run failed", logx.String("agent", agent), logx.Err(err))
	}
}

// History returns a copy of the recent run history, newest last.
func (s *Service) History() []HistoryItem {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	return append([]HistoryItem(nil), s.history...)
}

func (s *Service) record(item HistoryItem) {
	s.mu.Lock()
	limit := s.cfg.HistorySize
	s.mu.Unlock()

	s.hmu.Lock()
	s.history = append(s.history, item)
	if limit > 0 && len(s.history) > limit {
		s.history = s.history[len(s.history)-limit:]
	}
	s.hmu.Unlock()

	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := s.store.AppendRun(ctx, storage.RunEntry{
			Agent:    item.Agent,
			Started:  item.Started,
			Duration: item.Duration,
			OK:       item.OK,
			Status:   item.Status,
			Error:    item.Error,
		})
		if err != nil {
			s.log.Warn("persist run failed", logx.String("agent", item.Agent), logx.Err(err))
		}
	}

	s.mu.Lock()
	fn := s.onFailure
	s.mu.Unlock()
	if fn != nil && !item.OK {
		fn(item)
	}
}
