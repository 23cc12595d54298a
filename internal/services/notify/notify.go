// Package notify delivers run-failure notifications to a Telegram chat.
//
// Delivery is asynchronous: messages go through a bounded queue and a
// single sender goroutine with a token-bucket rate limit, so a flapping
// agent cannot stall the runner or flood the chat.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"agentsched/pkg/logx"
)

var (
	ErrDisabled  = errors.New("notifier disabled")
	ErrQueueFull = errors.New("notifier queue full")
)

type Config struct {
	Enabled    bool
	Token      string
	ChatID     int64
	RatePerSec int
	QueueSize  int
}

// Sender abstracts the Telegram client so tests can substitute it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Service struct {
	mu sync.Mutex

	log     logx.Logger
	cfg     Config
	sender  Sender
	limiter *rate.Limiter

	queue     chan string
	runCancel context.CancelFunc
	wg        sync.WaitGroup
}

func New(cfg Config, log logx.Logger) *Service {
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return &Service{
		cfg:     cfg,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
}

// SetSender overrides the Telegram client (tests). Call before Start.
func (s *Service) SetSender(sender Sender) {
	s.mu.Lock()
	s.sender = sender
	s.mu.Unlock()
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Enabled
}

// Start connects the bot (unless a Sender was injected) and launches
// the sender goroutine. Disabled services start as a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cfg.Enabled || s.queue != nil {
		return nil
	}

	if s.sender == nil {
		bot, err := tele.NewBot(tele.Settings{Token: s.cfg.Token})
		if err != nil {
			return fmt.Errorf("telegram bot: %w", err)
		}
		s.sender = bot
	}

	s.queue = make(chan string, s.cfg.QueueSize)
	runCtx, cancel := context.WithCancel(context.Background())
	s.runCancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.senderLoop(runCtx)
	}()
	s.log.Info("notifier started", logx.Int64("chat_id", s.cfg.ChatID), logx.Int("rate", s.cfg.RatePerSec))
	return nil
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	cancel := s.runCancel
	s.runCancel = nil
	s.queue = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Notify enqueues a message. It never blocks: a full queue drops the
// message and returns ErrQueueFull.
func (s *Service) Notify(text string) error {
	s.mu.Lock()
	queue := s.queue
	enabled := s.cfg.Enabled
	s.mu.Unlock()
	if !enabled || queue == nil {
		return ErrDisabled
	}
	select {
	case queue <- text:
		return nil
	default:
		return ErrQueueFull
	}
}

// RunFailed formats and enqueues a failed-run notification.
func (s *Service) RunFailed(agent string, started time.Time, took time.Duration, errText string) {
	msg := fmt.Sprintf("agent %s failed at %s (took %s): %s",
		agent, started.Format("15:04:05"), took.Round(time.Millisecond), errText)
	if err := s.Notify(msg); err != nil && !errors.Is(err, ErrDisabled) {
		s.log.Warn("notification dropped", logx.String("agent", agent), logx.Err(err))
	}
}

func (s *Service) senderLoop(ctx context.Context) {
	s.mu.Lock()
	sender := s.sender
	queue := s.queue
	chat := tele.ChatID(s.cfg.ChatID)
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case text := <-queue:
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
			if _, err := sender.Send(chat, text); err != nil {
				s.log.Warn("telegram send failed", logx.Err(err))
			}
		}
	}
}
