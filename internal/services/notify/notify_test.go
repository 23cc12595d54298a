package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"agentsched/pkg/logx"
)

type fakeSender struct {
	sent chan string
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.sent <- what.(string)
	return &tele.Message{}, nil
}

func TestNotifyDelivers(t *testing.T) {
	t.Parallel()
	s := New(Config{Enabled: true, ChatID: 42, RatePerSec: 100}, logx.Nop())
	fake := &fakeSender{sent: make(chan string, 8)}
	s.SetSender(fake)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop(context.Background())

	if err := s.Notify("hello"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	select {
	case got := <-fake.sent:
		if got != "hello" {
			t.Fatalf("sent %q, want %q", got, "hello")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message never delivered")
	}
}

func TestNotifyDisabled(t *testing.T) {
	t.Parallel()
	s := New(Config{}, logx.Nop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Notify("dropped"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("Notify err = %v, want ErrDisabled", err)
	}
}
