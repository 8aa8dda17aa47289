package notifier

import (
	"errors"
	"strings"
	"testing"
	"time"

	"FinSight/internal/model"
)

func TestFormatRunReport(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	report := &model.RunReport{
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Tickers:    []string{"AAPL", "MSFT"},
		Stages: []model.StageResult{
			{Stage: "etl", Tickers: 2, Duration: 30 * time.Second},
			{Stage: "insight", Tickers: 1, Skipped: 1, Duration: time.Second},
			{Stage: "prediction", Err: errors.New("modeling backend unavailable")},
		},
	}

	got := FormatRunReport(report)
	if !strings.Contains(got, "⚠️") {
		t.Errorf("failed run should carry the warning marker: %q", got)
	}
	if !strings.Contains(got, "AAPL, MSFT") {
		t.Errorf("missing ticker list: %q", got)
	}
	if !strings.Contains(got, "etl: 2 ok") {
		t.Errorf("missing etl line: %q", got)
	}
	if !strings.Contains(got, "1 skipped") {
		t.Errorf("missing skipped count: %q", got)
	}
	if !strings.Contains(got, "❌ prediction") {
		t.Errorf("missing failed stage line: %q", got)
	}
}

func TestFormatPredictionsEmpty(t *testing.T) {
	if got := FormatPredictions(nil); got != "No predictions available yet." {
		t.Errorf("FormatPredictions(nil) = %q", got)
	}
}

func TestFormatPredictionsArrows(t *testing.T) {
	got := FormatPredictions([]model.Prediction{
		{Ticker: "AAPL", CurrentPrice: 100, PredictedPrice: 103, Direction: model.DirectionUp, PredictedPctChg: 3},
		{Ticker: "TSLA", CurrentPrice: 250, PredictedPrice: 245, Direction: model.DirectionDown, PredictedPctChg: -2},
	})
	if !strings.Contains(got, "🔺 AAPL") || !strings.Contains(got, "🔻 TSLA") {
		t.Errorf("direction arrows wrong: %q", got)
	}
}

func TestFormatSentiment(t *testing.T) {
	got := FormatSentiment([]model.NewsSentiment{
		{Ticker: "AAPL", Title: "Great quarter", Label: model.SentimentPositive, Score: 0.6},
	})
	if !strings.Contains(got, "[POSITIVE] AAPL: Great quarter") {
		t.Errorf("FormatSentiment = %q", got)
	}
}
