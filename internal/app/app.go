// Package app wires configuration, logging, storage, the runner and
// the notifier into one lifecycle.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"agentsched/internal/config"
	"agentsched/internal/services/notify"
	"agentsched/internal/services/runner"
	"agentsched/internal/storage"
	"agentsched/pkg/logx"
)

type App struct {
	cfgMgr   *config.Manager
	log      logx.Logger
	store    storage.Store
	runner   *runner.Service
	notifier *notify.Service

	watchCancel context.CancelFunc
	cfgCh       chan *config.Config
	wg          sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	log, err := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	mgr.SetLogger(log.With(logx.String("component", "config")))
	mgr.SetValidator(func(ctx context.Context, cfg *config.Config) error {
		return config.Validate(cfg)
	})

	store, err := storage.Open(storageConfig(cfg), log.With(logx.String("component", "storage")))
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	notifier := notify.New(notifierConfig(cfg), log.With(logx.String("component", "notify")))
	run := runner.New(runnerConfig(cfg), store, log.With(logx.String("component", "runner")))
	run.SetFailureFunc(func(item runner.HistoryItem) {
		notifier.RunFailed(item.Agent, item.Started, item.Duration, item.Error)
	})

	return &App{
		cfgMgr:   mgr,
		log:      log,
		store:    store,
		runner:   run,
		notifier: notifier,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	cfg := a.cfgMgr.Get()

	if err := a.notifier.Start(ctx); err != nil {
		// The daemon is still useful without Telegram; keep going.
		a.log.Warn("notifier failed to start", logx.Err(err))
	}

	a.applyAgents(cfg)
	a.runner.Start(ctx)

	watchCtx, cancel := context.WithCancel(context.Background())
	a.watchCancel = cancel
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.cfgMgr.Watch(watchCtx); err != nil {
			a.log.Warn("config watch stopped", logx.Err(err))
		}
	}()

	a.cfgCh = a.cfgMgr.Subscribe(4)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for cfg := range a.cfgCh {
			a.log.Info("applying reloaded config")
			a.applyAgents(cfg)
		}
	}()

	a.log.Info("agentsched started")
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if a.watchCancel != nil {
		a.watchCancel()
	}
	if a.cfgCh != nil {
		a.cfgMgr.Unsubscribe(a.cfgCh)
		a.cfgCh = nil
	}
	a.wg.Wait()

	a.runner.Stop(ctx)
	a.notifier.Stop(ctx)
	if a.store != nil {
		_ = a.store.Close()
	}
	a.log.Info("agentsched stopped")
	return a.log.Close()
}

// applyAgents rebuilds the agent specs from cfg and hands them to the
// runner. Individual broken agents are skipped with a log line; the
// validator normally catches them before we get here.
func (a *App) applyAgents(cfg *config.Config) {
	rcfg := runnerConfig(cfg)
	a.runner.Apply(rcfg, a.buildAgents(cfg))
}

func (a *App) buildAgents(cfg *config.Config) []runner.AgentSpec {
	loc := a.runner.Location()

	names := make([]string, 0, len(cfg.Agents))
	for name := range cfg.Agents {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]runner.AgentSpec, 0, len(names))
	for _, name := range names {
		ac := cfg.Agents[name]
		if !ac.Enabled {
			continue
		}
		timeout, err := config.ParseDurationOrDefault("agents."+name+".timeout", ac.Timeout, runner.DefaultProbeTimeout)
		if err != nil {
			a.log.Warn("agent skipped", logx.String("agent", name), logx.Err(err))
			continue
		}

		var trig runner.Trigger
		switch {
		case ac.Frequency != nil:
			// One scheduler per trigger: the random source is not safe
			// for concurrent use across agent loops.
			trig, err = runner.NewFrequencyTrigger(a.runner.Scheduler(), *ac.Frequency)
		case strings.TrimSpace(ac.Cron) != "":
			trig, err = runner.NewCronTrigger(ac.Cron, loc)
		default:
			a.log.Warn("agent skipped: no trigger", logx.String("agent", name))
			continue
		}
		if err != nil {
			a.log.Warn("agent skipped", logx.String("agent", name), logx.Err(err))
			continue
		}

		specs = append(specs, runner.AgentSpec{
			Name:    name,
			URL:     ac.URL,
			Timeout: timeout,
			Trigger: trig,
		})
	}
	return specs
}

func runnerConfig(cfg *config.Config) runner.Config {
	return runner.Config{
		Enabled:          cfg.Scheduler.Enabled,
		Timezone:         cfg.Scheduler.Timezone,
		Workers:          cfg.Scheduler.Workers,
		HistorySize:      cfg.Scheduler.HistorySize,
		LaunchRatePerSec: cfg.Scheduler.LaunchRatePerSec,
	}
}

func storageConfig(cfg *config.Config) storage.Config {
	if cfg.Storage == nil {
		return storage.Config{}
	}
	busy, _ := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	return storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}
}

func notifierConfig(cfg *config.Config) notify.Config {
	if cfg.Notifier == nil {
		return notify.Config{}
	}
	return notify.Config{
		Enabled:    cfg.Notifier.Enabled,
		Token:      cfg.Notifier.Token,
		ChatID:     cfg.Notifier.ChatID,
		RatePerSec: cfg.Notifier.RatePerSec,
		QueueSize:  cfg.Notifier.QueueSize,
	}
}
