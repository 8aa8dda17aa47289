// Package insight produces one human-readable sentence per ticker from
// its processed series, via the completion service when configured and
// a deterministic template otherwise.
package insight

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"FinSight/internal/artifact"
	"FinSight/internal/llm"
	"FinSight/internal/model"
	"FinSight/internal/storage"
)

const systemPrompt = "You are a financial analyst bot."

// Stage generates the per-run insight aggregate.
type Stage struct {
	Store              storage.ObjectStore
	ProcessedContainer string
	Client             llm.Client // nil switches every ticker to the template fallback
}

// LocalInsight renders the deterministic template fallback. Same input
// yields a byte-identical sentence.
func LocalInsight(p *model.ProcessedSeries) string {
	if p.Empty() {
		return fmt.Sprintf("%s: No data available for insight.", p.Ticker)
	}

	latest := p.Rows[len(p.Rows)-1].Close
	prev := latest
	if p.Len() > 1 {
		prev = p.Rows[len(p.Rows)-2].Close
	}
	dailyReturn := 0.0
	if prev != 0 {
		dailyReturn = (latest - prev) / prev * 100
	}

	volatility := returnStd(p) * 100

	var volSum float64
	for _, r := range p.Rows {
		volSum += r.Volume
	}
	avgVolume := volSum / float64(p.Len())

	trend := "bearish"
	if dailyReturn > 0 {
		trend = "bullish"
	}
	volDesc := "stable"
	if volatility > 2.0 {
		volDesc = "high"
	}

	return fmt.Sprintf(
		"%s closed at $%.2f, showing a %s move of %.2f%%. "+
			"Volatility remains %s (%.2f%%), with an average volume of %s shares. "+
			"Market sentiment appears %s based on recent price action.",
		p.Ticker, latest, trend, dailyReturn, volDesc, volatility, humanize.Comma(int64(avgVolume)), trend)
}

// returnStd computes the sample standard deviation of return_pct,
// skipping nil entries. Fewer than two defined returns yield 0.
func returnStd(p *model.ProcessedSeries) float64 {
	var returns []float64
	for _, r := range p.Rows {
		if r.ReturnPct != nil {
			returns = append(returns, *r.ReturnPct)
		}
	}
	if len(returns) < 2 {
		return 0
	}
	var sum float64
	for _, v := range returns {
		sum += v
	}
	mean := sum / float64(len(returns))
	var sq float64
	for _, v := range returns {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(returns)-1))
}

// RenderRecentRows renders the last n processed rows as a plain table
// for prompt context.
func RenderRecentRows(p *model.ProcessedSeries, n int) string {
	var b strings.Builder
	b.WriteString("Date        Open      High      Low       Close     Volume        return_pct\n")
	for _, r := range p.Tail(n) {
		ret := "NaN"
		if r.ReturnPct != nil {
			ret = fmt.Sprintf("%.6f", *r.ReturnPct)
		}
		b.WriteString(fmt.Sprintf("%s  %-8.2f  %-8.2f  %-8.2f  %-8.2f  %-12.0f  %s\n",
			r.Date.Format("2006-01-02"), r.Open, r.High, r.Low, r.Close, r.Volume, ret))
	}
	return b.String()
}

// llmInsight requests a single-sentence completion grounded in the
// last 5 rows, falling back to the template on any failure.
func (s *Stage) llmInsight(ctx context.Context, p *model.ProcessedSeries) string {
	prompt := fmt.Sprintf(
		"Analyze the following recent stock data for %s:\n\n%s\n\n"+
			"Provide a concise, 1-sentence financial insight suitable for a dashboard. "+
			"Focus on trend, volatility, and volume. Do not use markdown.",
		p.Ticker, RenderRecentRows(p, 5))

	text, err := s.Client.Complete(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Printf("[ERROR] completion failed for %s: %v", p.Ticker, err)
		return LocalInsight(p)
	}
	return strings.TrimSpace(text)
}

// Generate produces the insight sentence for one processed series.
func (s *Stage) Generate(ctx context.Context, p *model.ProcessedSeries) string {
	if s.Client != nil {
		return s.llmInsight(ctx, p)
	}
	return LocalInsight(p)
}

// Run generates insights for all tickers and uploads the aggregate.
// Tickers without a processed artifact or with zero rows are skipped.
func (s *Stage) Run(ctx context.Context, tickers []string) model.StageResult {
	start := time.Now()
	res := model.StageResult{Stage: "insight"}

	mode := "local fallback"
	if s.Client != nil {
		mode = "llm"
	}
	log.Printf("[INFO] starting insight generation (mode: %s)", mode)

	var insights []model.Insight
	for _, ticker := range tickers {
		p, err := artifact.LoadProcessed(ctx, s.Store, s.ProcessedContainer, ticker)
		if err != nil {
			log.Printf("[ERROR] insight load %s: %v", ticker, err)
			res.Failed++
			continue
		}
		if p == nil {
			log.Printf("[WARN] blob %s not found, skipping", artifact.ProcessedBlobName(ticker))
			res.Skipped++
			continue
		}
		if p.Empty() {
			res.Skipped++
			continue
		}

		insights = append(insights, model.Insight{
			Ticker:  ticker,
			Insight: s.Generate(ctx, p),
			Date:    time.Now().Format("2006-01-02"),
		})
		res.Tickers++
		log.Printf("[INFO] generated insight for %s", ticker)
	}

	if len(insights) > 0 {
		data, err := artifact.EncodeInsights(insights)
		if err != nil {
			res.Err = fmt.Errorf("encode insights: %w", err)
		} else if err := s.Store.Upload(ctx, s.ProcessedContainer, artifact.InsightsBlob, data); err != nil {
			res.Err = err
		}
	} else {
		log.Println("[WARN] no insights generated")
	}

	res.Duration = time.Since(start)
	return res
}
