package etl

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"FinSight/internal/artifact"
	"FinSight/internal/marketdata"
	"FinSight/internal/model"
	"FinSight/internal/storage"
)

func makeSeries(closes ...float64) *model.Series {
	s := &model.Series{Ticker: "TEST"}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Bars = append(s.Bars, model.Bar{
			Date: base.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000,
		})
	}
	return s
}

func TestTransformRowCountAndReturns(t *testing.T) {
	s := makeSeries(100, 110, 99)
	p := Transform(s)

	if p.Len() != s.Len() {
		t.Fatalf("row count = %d, want %d", p.Len(), s.Len())
	}
	if p.Rows[0].ReturnPct != nil {
		t.Errorf("first row return should be nil, got %v", *p.Rows[0].ReturnPct)
	}
	if p.Rows[1].ReturnPct == nil || math.Abs(*p.Rows[1].ReturnPct-0.10) > 1e-12 {
		t.Errorf("return[1] = %v, want 0.10", p.Rows[1].ReturnPct)
	}
	if p.Rows[2].ReturnPct == nil || math.Abs(*p.Rows[2].ReturnPct-(-0.10)) > 1e-12 {
		t.Errorf("return[2] = %v, want -0.10", p.Rows[2].ReturnPct)
	}
}

func TestTransformZeroPrevClose(t *testing.T) {
	p := Transform(makeSeries(0, 50))
	if p.Rows[1].ReturnPct != nil {
		t.Errorf("return after zero close should be nil, got %v", *p.Rows[1].ReturnPct)
	}
}

func TestTransformEmpty(t *testing.T) {
	p := Transform(&model.Series{Ticker: "EMPTY"})
	if !p.Empty() {
		t.Errorf("expected empty output, got %d rows", p.Len())
	}
}

func TestFetchSoftFailure(t *testing.T) {
	stage := &Stage{Fetcher: &marketdata.MockFetcher{BarsErr: errors.New("boom")}}
	series := stage.Fetch("AAPL")
	if !series.Empty() {
		t.Errorf("fetch error should yield empty series, got %d bars", series.Len())
	}
	if series.Ticker != "AAPL" {
		t.Errorf("ticker = %q", series.Ticker)
	}
}

func TestRunUploadsArtifacts(t *testing.T) {
	store := storage.NewMemStore()
	stage := &Stage{
		Fetcher:            &marketdata.MockFetcher{Bars: makeSeries(100, 101, 102).Bars},
		Store:              store,
		RawContainer:       "rawdata",
		ProcessedContainer: "processeddata",
	}

	res := stage.Run(context.Background(), []string{"AAPL"})
	if res.Tickers != 1 || res.Failed != 0 || res.Skipped != 0 {
		t.Fatalf("result = %+v", res)
	}

	ctx := context.Background()
	if ok, _ := store.Exists(ctx, "rawdata", artifact.RawBlobName("AAPL")); !ok {
		t.Errorf("raw artifact missing")
	}
	data, err := store.Download(ctx, "processeddata", artifact.ProcessedBlobName("AAPL"))
	if err != nil {
		t.Fatalf("download processed: %v", err)
	}
	p, err := artifact.DecodeProcessed("AAPL", data)
	if err != nil {
		t.Fatalf("decode processed: %v", err)
	}
	if p.Len() != 3 {
		t.Errorf("processed rows = %d, want 3", p.Len())
	}
}

func TestRunSkipsEmptyTicker(t *testing.T) {
	store := storage.NewMemStore()
	stage := &Stage{
		Fetcher:            &marketdata.MockFetcher{BarsErr: errors.New("feed down")},
		Store:              store,
		RawContainer:       "rawdata",
		ProcessedContainer: "processeddata",
	}

	res := stage.Run(context.Background(), []string{"AAPL"})
	if res.Skipped != 1 || res.Tickers != 0 {
		t.Errorf("result = %+v, want 1 skipped", res)
	}
	if ok, _ := store.Exists(context.Background(), "rawdata", artifact.RawBlobName("AAPL")); ok {
		t.Errorf("no artifact should be written for a skipped ticker")
	}
}
