package model

import "time"

// Bar represents a single daily OHLCV candlestick.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series holds an ordered-by-date run of daily bars for one ticker.
// Dates are strictly increasing; missing trading days are absent, not
// interpolated.
type Series struct {
	Ticker    string
	Bars      []Bar
	FetchedAt time.Time
}

// Len returns the number of bars in the series.
func (s *Series) Len() int { return len(s.Bars) }

// Empty reports whether the series holds no bars.
func (s *Series) Empty() bool { return len(s.Bars) == 0 }

// LastClose returns the most recent close, or 0 for an empty series.
func (s *Series) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// ProcessedBar is a daily bar augmented with the day-over-day return.
// ReturnPct is nil on the first row of a series, where no previous
// close exists.
type ProcessedBar struct {
	Bar
	ReturnPct *float64
}

// ProcessedSeries is the transformed form of a Series, the only form
// downstream stages read.
type ProcessedSeries struct {
	Ticker string
	Rows   []ProcessedBar
}

// Len returns the number of rows in the processed series.
func (p *ProcessedSeries) Len() int { return len(p.Rows) }

// Empty reports whether the processed series holds no rows.
func (p *ProcessedSeries) Empty() bool { return len(p.Rows) == 0 }

// LastClose returns the most recent close, or 0 when empty.
func (p *ProcessedSeries) LastClose() float64 {
	if len(p.Rows) == 0 {
		return 0
	}
	return p.Rows[len(p.Rows)-1].Close
}

// Closes extracts the close column as a flat slice.
func (p *ProcessedSeries) Closes() []float64 {
	closes := make([]float64, len(p.Rows))
	for i, r := range p.Rows {
		closes[i] = r.Close
	}
	return closes
}

// Tail returns the last n rows (or all rows when fewer exist).
func (p *ProcessedSeries) Tail(n int) []ProcessedBar {
	if len(p.Rows) <= n {
		return p.Rows
	}
	return p.Rows[len(p.Rows)-n:]
}
