package notifier

import (
	"fmt"
	"strings"
	"time"

	"FinSight/internal/model"
)

// FormatRunReport formats a pipeline run summary for Telegram.
func FormatRunReport(report *model.RunReport) string {
	var b strings.Builder

	status := "✅"
	if report.Failed() {
		status = "⚠️"
	}
	b.WriteString(fmt.Sprintf("%s <b>FinSight pipeline run</b> | %s\n\n", status, report.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Tickers: %s\n\n", strings.Join(report.Tickers, ", ")))

	for _, s := range report.Stages {
		if s.Err != nil {
			b.WriteString(fmt.Sprintf("❌ %s: %v\n", s.Stage, s.Err))
			continue
		}
		b.WriteString(fmt.Sprintf("• %s: %d ok", s.Stage, s.Tickers))
		if s.Skipped > 0 {
			b.WriteString(fmt.Sprintf(", %d skipped", s.Skipped))
		}
		if s.Failed > 0 {
			b.WriteString(fmt.Sprintf(", %d failed", s.Failed))
		}
		b.WriteString(fmt.Sprintf(" (%s)\n", s.Duration.Round(10*time.Millisecond)))
	}

	b.WriteString(fmt.Sprintf("\nCompleted in %s\n", report.FinishedAt.Sub(report.StartedAt).Round(10*time.Millisecond)))
	return b.String()
}

// FormatPredictions formats the prediction aggregate for display.
func FormatPredictions(preds []model.Prediction) string {
	if len(preds) == 0 {
		return "No predictions available yet."
	}
	var b strings.Builder
	b.WriteString("🔮 <b>Next-day predictions</b>\n\n")
	for _, p := range preds {
		arrow := "🔻"
		if p.Direction == model.DirectionUp {
			arrow = "🔺"
		}
		b.WriteString(fmt.Sprintf("%s %s: $%.2f → $%.2f (%+.2f%%)\n",
			arrow, p.Ticker, p.CurrentPrice, p.PredictedPrice, p.PredictedPctChg))
	}
	return b.String()
}

// FormatInsights formats the insight aggregate for display.
func FormatInsights(insights []model.Insight) string {
	if len(insights) == 0 {
		return "No insights available yet."
	}
	var b strings.Builder
	b.WriteString("💡 <b>Daily insights</b>\n\n")
	for _, in := range insights {
		b.WriteString(fmt.Sprintf("<b>%s</b>: %s\n\n", in.Ticker, in.Insight))
	}
	return b.String()
}

// FormatSentiment formats the sentiment aggregate for display.
func FormatSentiment(items []model.NewsSentiment) string {
	if len(items) == 0 {
		return "No news sentiment available yet."
	}
	var b strings.Builder
	b.WriteString("📰 <b>News sentiment</b>\n\n")
	for _, it := range items {
		b.WriteString(fmt.Sprintf("[%s] %s: %s (%.2f)\n", it.Label, it.Ticker, it.Title, it.Score))
	}
	return b.String()
}
