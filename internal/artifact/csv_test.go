package artifact

import (
	"context"
	"strings"
	"testing"
	"time"

	"FinSight/internal/model"
	"FinSight/internal/storage"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func TestBlobNames(t *testing.T) {
	if got := RawBlobName("AAPL"); got != "AAPL_raw.csv" {
		t.Errorf("RawBlobName = %q, want AAPL_raw.csv", got)
	}
	if got := ProcessedBlobName("AAPL"); got != "AAPL_processed.csv" {
		t.Errorf("ProcessedBlobName = %q, want AAPL_processed.csv", got)
	}
}

func TestEncodeRawHeader(t *testing.T) {
	s := &model.Series{Ticker: "AAPL", Bars: []model.Bar{
		{Date: day(0), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
	}}
	data, err := EncodeRaw(s)
	if err != nil {
		t.Fatalf("EncodeRaw: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Date,Open,High,Low,Close,Volume" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}

func TestProcessedRoundTrip(t *testing.T) {
	ret := 0.0125
	p := &model.ProcessedSeries{Ticker: "MSFT", Rows: []model.ProcessedBar{
		{Bar: model.Bar{Date: day(0), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 5e6}},
		{Bar: model.Bar{Date: day(1), Open: 100.5, High: 102, Low: 100, Close: 101.75, Volume: 6e6}, ReturnPct: &ret},
	}}

	data, err := EncodeProcessed(p)
	if err != nil {
		t.Fatalf("EncodeProcessed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Date,Open,High,Low,Close,Volume,return_pct" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",") {
		t.Errorf("first data row should have empty return_pct, got %q", lines[1])
	}

	got, err := DecodeProcessed("MSFT", data)
	if err != nil {
		t.Fatalf("DecodeProcessed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("decoded %d rows, want 2", got.Len())
	}
	if got.Rows[0].ReturnPct != nil {
		t.Errorf("first row return_pct should be nil")
	}
	if got.Rows[1].ReturnPct == nil || *got.Rows[1].ReturnPct != ret {
		t.Errorf("second row return_pct = %v, want %v", got.Rows[1].ReturnPct, ret)
	}
	if got.Rows[1].Close != 101.75 {
		t.Errorf("close = %v, want 101.75", got.Rows[1].Close)
	}
	if !got.Rows[1].Date.Equal(day(1)) {
		t.Errorf("date = %v, want %v", got.Rows[1].Date, day(1))
	}
}

func TestDecodeProcessedEmpty(t *testing.T) {
	p, err := DecodeProcessed("X", []byte("Date,Open,High,Low,Close,Volume,return_pct\n"))
	if err != nil {
		t.Fatalf("DecodeProcessed: %v", err)
	}
	if !p.Empty() {
		t.Errorf("expected empty series, got %d rows", p.Len())
	}
}

func TestPredictionsRoundTrip(t *testing.T) {
	preds := []model.Prediction{
		{Ticker: "TSLA", CurrentPrice: 250, PredictedPrice: 255.5, Direction: model.DirectionUp, PredictedPctChg: 2.2, Date: "2024-06-01"},
	}
	data, err := EncodePredictions(preds)
	if err != nil {
		t.Fatalf("EncodePredictions: %v", err)
	}
	if !strings.HasPrefix(string(data), "Ticker,Current Price,Predicted 1D Price,Direction,Predicted % Change,Date") {
		t.Errorf("unexpected header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}

	got, err := DecodePredictions(data)
	if err != nil {
		t.Fatalf("DecodePredictions: %v", err)
	}
	if len(got) != 1 || got[0] != preds[0] {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestSentimentRoundTrip(t *testing.T) {
	fetched := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	items := []model.NewsSentiment{
		{Ticker: "AAPL", Title: "Apple beats estimates", Link: "", Score: 0.6, Label: model.SentimentPositive, Subjectivity: 0.4, FetchedAt: fetched},
	}
	data, err := EncodeSentiment(items)
	if err != nil {
		t.Fatalf("EncodeSentiment: %v", err)
	}
	got, err := DecodeSentiment(data)
	if err != nil {
		t.Fatalf("DecodeSentiment: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("decoded %d items, want 1", len(got))
	}
	if got[0].Link != "" {
		t.Errorf("empty link should survive the round trip, got %q", got[0].Link)
	}
	if !got[0].FetchedAt.Equal(fetched) {
		t.Errorf("fetched_at = %v, want %v", got[0].FetchedAt, fetched)
	}
}

func TestLoadProcessedMissing(t *testing.T) {
	store := storage.NewMemStore()
	p, err := LoadProcessed(context.Background(), store, "processeddata", "AAPL")
	if err != nil {
		t.Fatalf("LoadProcessed: %v", err)
	}
	if p != nil {
		t.Errorf("missing blob should yield nil series, got %+v", p)
	}
}
