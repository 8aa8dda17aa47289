package marketdata

import (
	"encoding/json"
	"testing"
)

func parseChart(t *testing.T, payload string) *yahooChart {
	t.Helper()
	var chart yahooChart
	if err := json.Unmarshal([]byte(payload), &chart); err != nil {
		t.Fatalf("unmarshal chart: %v", err)
	}
	return &chart
}

func TestChartBars(t *testing.T) {
	chart := parseChart(t, `{"chart":{"result":[{
		"timestamp":[1704153600,1704240000,1704326400],
		"indicators":{"quote":[{
			"open":[185,null,186],
			"high":[186,null,187.5],
			"low":[183,null,185],
			"close":[185.5,null,186.2],
			"volume":[50000000,null,48000000]
		}]}
	}]}}`)

	bars, err := chartBars(chart)
	if err != nil {
		t.Fatalf("chartBars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2 (null bar skipped)", len(bars))
	}
	if bars[0].Close != 185.5 || bars[1].Close != 186.2 {
		t.Errorf("closes = %v, %v", bars[0].Close, bars[1].Close)
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Errorf("bars not chronological")
	}
}

func TestChartBarsEmptyQuote(t *testing.T) {
	// Timestamps present but no quote arrays: treat as no data, never
	// index into the missing series.
	chart := parseChart(t, `{"chart":{"result":[{
		"timestamp":[1704153600,1704240000],
		"indicators":{"quote":[]}
	}]}}`)

	if _, err := chartBars(chart); err == nil {
		t.Errorf("expected no-data error for empty quote array")
	}
}

func TestChartBarsShortQuote(t *testing.T) {
	// Quote arrays shorter than the timestamp list: the trailing bars
	// read as nulls and are skipped, not a panic.
	chart := parseChart(t, `{"chart":{"result":[{
		"timestamp":[1704153600,1704240000,1704326400],
		"indicators":{"quote":[{
			"open":[185],
			"high":[186],
			"low":[183],
			"close":[185.5],
			"volume":[50000000]
		}]}
	}]}}`)

	bars, err := chartBars(chart)
	if err != nil {
		t.Fatalf("chartBars: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("got %d bars, want 1", len(bars))
	}
}

func TestChartBarsAPIError(t *testing.T) {
	chart := parseChart(t, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`)
	if _, err := chartBars(chart); err == nil {
		t.Errorf("expected error from error payload")
	}
}
