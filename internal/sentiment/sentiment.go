// Package sentiment fetches recent headlines per ticker and scores
// them with a lexicon-based analyzer.
package sentiment

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonreiter/govader"

	"FinSight/internal/artifact"
	"FinSight/internal/marketdata"
	"FinSight/internal/model"
	"FinSight/internal/storage"
)

// Label boundaries are exclusive: a polarity of exactly 0.1 (or -0.1)
// is NEUTRAL.
const labelThreshold = 0.1

// Analyzer scores headline text.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns polarity in [-1,1] and subjectivity in [0,1] for a
// piece of text. Polarity is the lexicon's normalized compound score;
// subjectivity is the share of sentiment-laden tokens, the complement
// of the neutral proportion.
func (a *Analyzer) Score(text string) (polarity, subjectivity float64) {
	s := a.vader.PolarityScores(text)
	subjectivity = 1 - s.Neutral
	if subjectivity < 0 {
		subjectivity = 0
	}
	if subjectivity > 1 {
		subjectivity = 1
	}
	return s.Compound, subjectivity
}

// Classify maps a polarity score to its label.
func Classify(polarity float64) string {
	switch {
	case polarity > labelThreshold:
		return model.SentimentPositive
	case polarity < -labelThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// Stage generates the per-run sentiment aggregate.
type Stage struct {
	Fetcher   marketdata.Fetcher
	Store     storage.ObjectStore
	Container string
	NewsLimit int
	analyzer  *Analyzer
}

// Analyze fetches and scores up to NewsLimit headlines for one ticker.
// Headlines without a title are dropped; a missing link is kept as an
// empty field, link is informational only.
func (s *Stage) Analyze(ticker string) ([]model.NewsSentiment, error) {
	if s.analyzer == nil {
		s.analyzer = NewAnalyzer()
	}

	items, err := s.Fetcher.FetchNews(ticker, s.NewsLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", ticker, err)
	}

	results := make([]model.NewsSentiment, 0, len(items))
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		polarity, subjectivity := s.analyzer.Score(item.Title)
		results = append(results, model.NewsSentiment{
			Ticker:       ticker,
			Title:        item.Title,
			Link:         item.Link,
			Score:        polarity,
			Label:        Classify(polarity),
			Subjectivity: subjectivity,
			FetchedAt:    time.Now().UTC(),
		})
	}
	return results, nil
}

// Run scores headlines for all tickers and uploads the aggregate; one
// row per headline across all tickers, full overwrite.
func (s *Stage) Run(ctx context.Context, tickers []string) model.StageResult {
	start := time.Now()
	res := model.StageResult{Stage: "sentiment"}
	log.Println("[INFO] starting news sentiment analysis")

	var all []model.NewsSentiment
	for _, ticker := range tickers {
		items, err := s.Analyze(ticker)
		if err != nil {
			log.Printf("[ERROR] sentiment for %s: %v", ticker, err)
			res.Failed++
			continue
		}
		if len(items) == 0 {
			log.Printf("[WARN] no news found for %s", ticker)
			res.Skipped++
			continue
		}
		all = append(all, items...)
		res.Tickers++
		log.Printf("[INFO] fetched %d news items for %s", len(items), ticker)
	}

	if len(all) > 0 {
		data, err := artifact.EncodeSentiment(all)
		if err != nil {
			res.Err = fmt.Errorf("encode sentiment: %w", err)
		} else if err := s.Store.Upload(ctx, s.Container, artifact.SentimentBlob, data); err != nil {
			res.Err = err
		}
	} else {
		log.Println("[WARN] no news data collected for any ticker")
	}

	res.Duration = time.Since(start)
	return res
}
