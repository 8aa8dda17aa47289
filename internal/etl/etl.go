// Package etl implements the fetch-transform stage: pull raw OHLCV per
// ticker, derive the daily return, and persist raw + processed CSV
// artifacts.
package etl

import (
	"context"
	"fmt"
	"log"
	"time"

	"FinSight/internal/artifact"
	"FinSight/internal/marketdata"
	"FinSight/internal/model"
	"FinSight/internal/storage"
)

// FetchYears is the daily-bar history window, matching the 5y fetch of
// the dashboard charts.
const FetchYears = 5

// Stage fetches, transforms, and stores per-ticker series.
type Stage struct {
	Fetcher            marketdata.Fetcher
	Store              storage.ObjectStore
	RawContainer       string
	ProcessedContainer string
	FetchDelay         time.Duration
}

// Fetch pulls the daily series for one ticker. It fails soft: any
// source error or empty result yields an empty series, logged but not
// raised.
func (s *Stage) Fetch(ticker string) *model.Series {
	log.Printf("[INFO] fetching data for %s from %s...", ticker, s.Fetcher.Name())
	series := &model.Series{Ticker: ticker, FetchedAt: time.Now().UTC()}

	bars, err := s.Fetcher.FetchDailyBars(ticker, FetchYears)
	if err != nil {
		log.Printf("[ERROR] fetch %s: %v", ticker, err)
		return series
	}
	if len(bars) == 0 {
		log.Printf("[WARN] no data found for %s", ticker)
		return series
	}
	series.Bars = bars
	return series
}

// Transform derives return_pct via adjacent differencing. It is pure
// and total for non-empty input: the row count equals the input bar
// count and the first row's return is nil.
func Transform(s *model.Series) *model.ProcessedSeries {
	p := &model.ProcessedSeries{
		Ticker: s.Ticker,
		Rows:   make([]model.ProcessedBar, len(s.Bars)),
	}
	for i, b := range s.Bars {
		p.Rows[i] = model.ProcessedBar{Bar: b}
		if i > 0 && s.Bars[i-1].Close != 0 {
			ret := (b.Close - s.Bars[i-1].Close) / s.Bars[i-1].Close
			p.Rows[i].ReturnPct = &ret
		}
	}
	return p
}

// processTicker fetches, uploads raw, transforms, and uploads processed
// for one ticker. A false return means the ticker produced no output.
func (s *Stage) processTicker(ctx context.Context, ticker string) (bool, error) {
	series := s.Fetch(ticker)
	if series.Empty() {
		return false, nil
	}

	rawCSV, err := artifact.EncodeRaw(series)
	if err != nil {
		return false, fmt.Errorf("encode raw %s: %w", ticker, err)
	}
	if err := s.Store.Upload(ctx, s.RawContainer, artifact.RawBlobName(ticker), rawCSV); err != nil {
		return false, err
	}

	processed := Transform(series)
	processedCSV, err := artifact.EncodeProcessed(processed)
	if err != nil {
		return false, fmt.Errorf("encode processed %s: %w", ticker, err)
	}
	if err := s.Store.Upload(ctx, s.ProcessedContainer, artifact.ProcessedBlobName(ticker), processedCSV); err != nil {
		return false, err
	}
	return true, nil
}

// Run processes every ticker in order. Per-ticker failures are logged
// and the loop continues; a fixed delay between tickers keeps the run
// under upstream rate limits.
func (s *Stage) Run(ctx context.Context, tickers []string) model.StageResult {
	start := time.Now()
	res := model.StageResult{Stage: "etl"}

	for _, ticker := range tickers {
		ok, err := s.processTicker(ctx, ticker)
		switch {
		case err != nil:
			log.Printf("[ERROR] processing %s: %v", ticker, err)
			res.Failed++
		case !ok:
			res.Skipped++
		default:
			res.Tickers++
			if s.FetchDelay > 0 {
				time.Sleep(s.FetchDelay)
			}
		}
	}

	res.Duration = time.Since(start)
	log.Printf("[INFO] etl stage complete: %d ok, %d skipped, %d failed", res.Tickers, res.Skipped, res.Failed)
	return res
}
