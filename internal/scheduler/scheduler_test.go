package scheduler

import (
	"context"
	"strings"
	"testing"

	"FinSight/internal/artifact"
	"FinSight/internal/chat"
	"FinSight/internal/model"
	"FinSight/internal/storage"
)

func newTestScheduler(t *testing.T) (*Scheduler, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	s := NewScheduler(context.Background(), nil, store, "processeddata", nil, nil, "AAPL")
	return s, store
}

func TestHandleMessageNoArtifacts(t *testing.T) {
	s, _ := newTestScheduler(t)

	if got := s.HandleMessage("/insights"); got != "No insights available yet." {
		t.Errorf("/insights = %q", got)
	}
	if got := s.HandleMessage("/predictions"); got != "No predictions available yet." {
		t.Errorf("/predictions = %q", got)
	}
	if got := s.HandleMessage("/sentiment"); got != "No news sentiment available yet." {
		t.Errorf("/sentiment = %q", got)
	}
}

func TestHandleMessagePredictions(t *testing.T) {
	s, store := newTestScheduler(t)

	data, err := artifact.EncodePredictions([]model.Prediction{
		{Ticker: "AAPL", CurrentPrice: 100, PredictedPrice: 103, Direction: model.DirectionUp, PredictedPctChg: 3, Date: "2024-06-01"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Upload(context.Background(), "processeddata", artifact.PredictionsBlob, data); err != nil {
		t.Fatal(err)
	}

	got := s.HandleMessage("/predictions")
	if !strings.Contains(got, "AAPL") || !strings.Contains(got, "$103.00") {
		t.Errorf("/predictions = %q", got)
	}
}

func TestHandleMessageTicker(t *testing.T) {
	s, _ := newTestScheduler(t)

	if got := s.HandleMessage("/ticker"); got != "Usage: /ticker SYMBOL" {
		t.Errorf("bare /ticker = %q", got)
	}
	got := s.HandleMessage("/ticker msft")
	if got != "Assistant now focused on MSFT." {
		t.Errorf("/ticker msft = %q", got)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != "MSFT" {
		t.Errorf("focused ticker = %q", s.ticker)
	}
	if len(s.history) != 0 {
		t.Errorf("history should reset on ticker change")
	}
}

func TestHandleMessageChatOffline(t *testing.T) {
	s, _ := newTestScheduler(t)

	got := s.HandleMessage("what do you think of the trend?")
	if got != chat.OfflineMessage {
		t.Errorf("chat without LLM = %q, want %q", got, chat.OfflineMessage)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) != 2 {
		t.Errorf("history = %d entries, want user + assistant", len(s.history))
	}
}

func TestHandleMessageHelp(t *testing.T) {
	s, _ := newTestScheduler(t)
	got := s.HandleMessage("/help")
	if !strings.Contains(got, "/run") || !strings.Contains(got, "/ticker") {
		t.Errorf("/help = %q", got)
	}
}
