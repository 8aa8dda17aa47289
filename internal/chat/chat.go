// Package chat assembles grounded context for the dashboard assistant
// and drives the completion service. There is a single context-assembly
// path; every contextual field is optional.
package chat

import (
	"context"
	"fmt"
	"strings"

	"FinSight/internal/insight"
	"FinSight/internal/llm"
	"FinSight/internal/model"
)

const systemPrompt = `You are FinBot, an expert financial analyst assistant.
You are embedded in a dashboard called 'FinSight'.
Your goal is to help the user understand the stock data, charts, and trends presented to them.
Always be professional, concise, and data-driven.
If you don't know the answer, admit it.
Do not give financial advice (e.g., 'Buy now!'). Instead say 'The trend is bullish'.`

// OfflineMessage is returned when no completion service is configured.
const OfflineMessage = "Broadcasting from FinBot: I'm offline! (Missing API key)"

// Request carries the running conversation and the dashboard state the
// reply should be grounded in.
type Request struct {
	History       []llm.Message
	Ticker        string
	RecentBars    *model.ProcessedSeries
	Prediction    *model.Prediction
	MarketContext string
	Sentiment     []model.NewsSentiment
}

// Technicals summarises support, resistance, and trend for the visible
// window.
func Technicals(p *model.ProcessedSeries) string {
	if p == nil || p.Empty() {
		return "No data available."
	}

	lastClose := p.LastClose()
	maxHigh, minLow := p.Rows[0].High, p.Rows[0].Low
	for _, r := range p.Rows[1:] {
		if r.High > maxHigh {
			maxHigh = r.High
		}
		if r.Low < minLow {
			minLow = r.Low
		}
	}

	// Trend: price vs 20-bar moving average.
	ma20 := lastClose
	if p.Len() >= 20 {
		var sum float64
		for _, r := range p.Tail(20) {
			sum += r.Close
		}
		ma20 = sum / 20
	}
	trend := "BEARISH"
	if lastClose > ma20 {
		trend = "BULLISH"
	}

	return fmt.Sprintf(
		"- Current Price: $%.2f\n"+
			"- Window High (Resistance): $%.2f\n"+
			"- Window Low (Support): $%.2f\n"+
			"- Technical Trend: %s (Price vs 20-MA)",
		lastClose, maxHigh, minLow, trend)
}

// BuildContext renders the context block injected into the system
// prompt.
func BuildContext(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User is currently looking at %s.\n", req.Ticker)

	if req.RecentBars != nil && !req.RecentBars.Empty() {
		fmt.Fprintf(&b, "\nTECHNICAL ANALYSIS (Visual Trends):\n%s\n", Technicals(req.RecentBars))
		fmt.Fprintf(&b, "\nLatest Data (Last 5 Days):\n%s", insight.RenderRecentRows(req.RecentBars, 5))
	}
	if req.Prediction != nil {
		fmt.Fprintf(&b, "\nAI PREDICTION (Sequence Model):\nTomorrow's Price: $%.2f (%s)\n",
			req.Prediction.PredictedPrice, req.Prediction.Direction)
	}
	if len(req.Sentiment) > 0 {
		b.WriteString("\nNEWS SENTIMENT (Latest Headlines):\n")
		top := req.Sentiment
		if len(top) > 3 {
			top = top[:3]
		}
		for _, item := range top {
			fmt.Fprintf(&b, "- [%s] %s (Score: %.2f)\n", item.Label, item.Title, item.Score)
		}
	}
	if req.MarketContext != "" {
		fmt.Fprintf(&b, "\nMARKET CONTEXT (Comparisons):\n%s\n", req.MarketContext)
	}
	return b.String()
}

// Respond generates one assistant reply. It degrades to a fixed
// offline string when no completion client is configured, and reports
// completion failures as the reply rather than propagating them.
func Respond(ctx context.Context, client llm.Client, req Request) string {
	if client == nil {
		return OfflineMessage
	}

	messages := make([]llm.Message, 0, len(req.History)+1)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: systemPrompt + "\n\nCONTEXT:\n" + BuildContext(req),
	})
	messages = append(messages, req.History...)

	reply, err := client.Complete(ctx, messages)
	if err != nil {
		return fmt.Sprintf("FinBot Error: %v", err)
	}
	return reply
}
