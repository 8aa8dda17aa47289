package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"FinSight/internal/artifact"
	"FinSight/internal/chat"
	"FinSight/internal/llm"
	"FinSight/internal/model"
	"FinSight/internal/notifier"
	"FinSight/internal/pipeline"
	"FinSight/internal/storage"
)

// historyLimit caps the retained chat turns sent back to the
// completion service.
const historyLimit = 20

// Scheduler triggers pipeline runs on a fixed interval and serves the
// chat assistant and status commands.
type Scheduler struct {
	Cron               *cron.Cron
	Pipeline           *pipeline.Pipeline
	Store              storage.ObjectStore
	ProcessedContainer string
	LLM                llm.Client
	Notifier           *notifier.TelegramNotifier
	Ctx                context.Context

	mu      sync.Mutex
	ticker  string
	history []llm.Message
}

// NewScheduler creates a new Scheduler. defaultTicker grounds the chat
// assistant before the user selects one.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, store storage.ObjectStore, processedContainer string, client llm.Client, tn *notifier.TelegramNotifier, defaultTicker string) *Scheduler {
	return &Scheduler{
		Cron:               cron.New(cron.WithSeconds()),
		Pipeline:           p,
		Store:              store,
		ProcessedContainer: processedContainer,
		LLM:                client,
		Notifier:           tn,
		Ctx:                ctx,
		ticker:             defaultTicker,
	}
}

// Register registers the ETL run on the given cron expression.
func (s *Scheduler) Register(cronExpr string) error {
	if _, err := s.Cron.AddFunc(cronExpr, s.RunNow); err != nil {
		return fmt.Errorf("register etl task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes a full pipeline run immediately (scheduled trigger,
// manual trigger, or RUN_ON_START).
func (s *Scheduler) RunNow() {
	report := s.Pipeline.Run(s.Ctx)
	s.trySend(notifier.FormatRunReport(report))
}

// HandleMessage processes a user command or free-form chat message and
// returns the reply.
func (s *Scheduler) HandleMessage(text string) string {
	switch {
	case text == "/run":
		go s.RunNow()
		return "Pipeline run started."
	case text == "/insights":
		return s.insightsReply()
	case text == "/predictions":
		return s.predictionsReply()
	case text == "/sentiment":
		return s.sentimentReply()
	case strings.HasPrefix(text, "/ticker"):
		return s.selectTicker(strings.TrimSpace(strings.TrimPrefix(text, "/ticker")))
	case text == "/help" || text == "/start":
		return "Commands:\n/run - trigger a pipeline run\n/insights - latest insights\n/predictions - next-day predictions\n/sentiment - news sentiment\n/ticker SYMBOL - focus the assistant\n\nAnything else is answered by the assistant."
	default:
		return s.chatReply(text)
	}
}

func (s *Scheduler) selectTicker(ticker string) string {
	if ticker == "" {
		return "Usage: /ticker SYMBOL"
	}
	ticker = strings.ToUpper(ticker)
	s.mu.Lock()
	s.ticker = ticker
	s.history = nil
	s.mu.Unlock()
	return fmt.Sprintf("Assistant now focused on %s.", ticker)
}

func (s *Scheduler) insightsReply() string {
	data, err := s.Store.Download(s.Ctx, s.ProcessedContainer, artifact.InsightsBlob)
	if err != nil {
		return "No insights available yet."
	}
	insights, err := artifact.DecodeInsights(data)
	if err != nil {
		log.Printf("[ERROR] decode insights: %v", err)
		return "No insights available yet."
	}
	return notifier.FormatInsights(insights)
}

func (s *Scheduler) predictionsReply() string {
	data, err := s.Store.Download(s.Ctx, s.ProcessedContainer, artifact.PredictionsBlob)
	if err != nil {
		return "No predictions available yet."
	}
	preds, err := artifact.DecodePredictions(data)
	if err != nil {
		log.Printf("[ERROR] decode predictions: %v", err)
		return "No predictions available yet."
	}
	return notifier.FormatPredictions(preds)
}

func (s *Scheduler) sentimentReply() string {
	data, err := s.Store.Download(s.Ctx, s.ProcessedContainer, artifact.SentimentBlob)
	if err != nil {
		return "No news sentiment available yet."
	}
	items, err := artifact.DecodeSentiment(data)
	if err != nil {
		log.Printf("[ERROR] decode sentiment: %v", err)
		return "No news sentiment available yet."
	}
	return notifier.FormatSentiment(items)
}

// chatReply assembles artifact-grounded context for the focused ticker
// and asks the assistant.
func (s *Scheduler) chatReply(text string) string {
	s.mu.Lock()
	ticker := s.ticker
	s.history = append(s.history, llm.Message{Role: "user", Content: text})
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
	history := make([]llm.Message, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	req := chat.Request{History: history, Ticker: ticker}

	if series, err := artifact.LoadProcessed(s.Ctx, s.Store, s.ProcessedContainer, ticker); err == nil && series != nil {
		// The assistant sees the same 60-bar window the dashboard charts.
		trimmed := &model.ProcessedSeries{Ticker: ticker, Rows: series.Tail(60)}
		req.RecentBars = trimmed
	}
	if data, err := s.Store.Download(s.Ctx, s.ProcessedContainer, artifact.PredictionsBlob); err == nil {
		if preds, err := artifact.DecodePredictions(data); err == nil {
			for i := range preds {
				if preds[i].Ticker == ticker {
					req.Prediction = &preds[i]
					break
				}
			}
		}
	}
	if data, err := s.Store.Download(s.Ctx, s.ProcessedContainer, artifact.SentimentBlob); err == nil {
		if items, err := artifact.DecodeSentiment(data); err == nil {
			for _, it := range items {
				if it.Ticker == ticker {
					req.Sentiment = append(req.Sentiment, it)
				}
			}
		}
	}

	reply := chat.Respond(s.Ctx, s.LLM, req)

	s.mu.Lock()
	s.history = append(s.history, llm.Message{Role: "assistant", Content: reply})
	s.mu.Unlock()
	return reply
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
