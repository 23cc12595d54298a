package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"agentsched/pkg/logx"
)

// Store is the minimal persistence API used by the runner.
//
// PutNextRun/GetNextRun keep the computed next-run instant across
// restarts so an agent doesn't fire immediately on every boot.
type Store interface {
	AppendRun(ctx context.Context, e RunEntry) error
	PutNextRun(ctx context.Context, agent string, at time.Time) error
	GetNextRun(ctx context.Context, agent string) (at time.Time, ok bool, err error)
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
