package runner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"agentsched/pkg/logx"
)

// DefaultProbeTimeout bounds a single run when the agent config does
// not set a timeout of its own.
const DefaultProbeTimeout = 30 * time.Second

var probeClient = &http.Client{
	// Per-run timeouts come from the request context; the client-level
	// timeout is a backstop against agents configured without one.
	Timeout: 5 * time.Minute,
}

func (s *Service) worker(ctx context.Context, queue chan task, idx int) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-queue:
			s.execOne(ctx, t)
		}
	}
}

func (s *Service) execOne(ctx context.Context, t task) {
	a := t.agent
	runCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	start := time.Now()
	status, err := probe(runCtx, a.URL)

	item := HistoryItem{
		Agent:    a.Name,
		Started:  start,
		Duration: time.Since(start),
		OK:       err == nil,
		Status:   status,
	}
	if err != nil {
		item.Error = err.Error()
		s.log.Warn("agent run failed",
			logx.String("agent", a.Name),
			logx.Int("status", status),
			logx.Duration("took", item.Duration),
			logx.Err(err),
		)
	} else {
		s.log.Info("agent run ok",
			logx.String("agent", a.Name),
			logx.Int("status", status),
			logx.Duration("took", item.Duration),
		)
	}
	s.record(item)
}

// probe fetches the agent URL. Any transport error or non-2xx response
// counts as a failed run. The body is drained so connections can be
// reused.
func probe(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "agentsched")

	resp, err := probeClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.StatusCode, nil
}
