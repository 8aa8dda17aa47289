package sentiment

import (
	"context"
	"errors"
	"testing"

	"FinSight/internal/artifact"
	"FinSight/internal/marketdata"
	"FinSight/internal/model"
	"FinSight/internal/storage"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		polarity float64
		want     string
	}{
		{0.5, model.SentimentPositive},
		{0.1001, model.SentimentPositive},
		{0.1, model.SentimentNeutral},
		{0, model.SentimentNeutral},
		{-0.1, model.SentimentNeutral},
		{-0.1001, model.SentimentNegative},
		{-0.9, model.SentimentNegative},
	}
	for _, tc := range cases {
		if got := Classify(tc.polarity); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.polarity, got, tc.want)
		}
	}
}

func TestScoreRanges(t *testing.T) {
	a := NewAnalyzer()

	pos, subj := a.Score("Fantastic earnings, great growth and excellent outlook")
	if pos <= 0 {
		t.Errorf("positive headline scored %v", pos)
	}
	if subj < 0 || subj > 1 {
		t.Errorf("subjectivity %v outside [0,1]", subj)
	}

	neg, _ := a.Score("Terrible losses, awful quarter and horrible guidance")
	if neg >= 0 {
		t.Errorf("negative headline scored %v", neg)
	}
}

func TestAnalyzeDropsEmptyTitles(t *testing.T) {
	stage := &Stage{
		Fetcher: &marketdata.MockFetcher{News: []model.NewsItem{
			{Title: "Stock surges on great results", Link: "http://a"},
			{Title: "", Link: "http://b"},
			{Title: "No link headline"},
		}},
		NewsLimit: 5,
	}

	items, err := stage.Analyze("AAPL")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (empty title dropped)", len(items))
	}
	if items[1].Link != "" {
		t.Errorf("missing link should be kept as empty, got %q", items[1].Link)
	}
	for _, it := range items {
		if it.Label != Classify(it.Score) {
			t.Errorf("label %q inconsistent with score %v", it.Label, it.Score)
		}
		if it.Ticker != "AAPL" {
			t.Errorf("ticker = %q", it.Ticker)
		}
	}
}

func TestRunAggregatesAcrossTickers(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	stage := &Stage{
		Fetcher: &marketdata.MockFetcher{News: []model.NewsItem{
			{Title: "Solid quarter"},
		}},
		Store:     store,
		Container: "processeddata",
		NewsLimit: 5,
	}

	res := stage.Run(ctx, []string{"AAPL", "MSFT"})
	if res.Tickers != 2 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}

	data, err := store.Download(ctx, "processeddata", artifact.SentimentBlob)
	if err != nil {
		t.Fatalf("download sentiment: %v", err)
	}
	items, err := artifact.DecodeSentiment(data)
	if err != nil {
		t.Fatalf("decode sentiment: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("aggregate rows = %d, want one per ticker", len(items))
	}
}

func TestRunFeedFailure(t *testing.T) {
	store := storage.NewMemStore()
	stage := &Stage{
		Fetcher:   &marketdata.MockFetcher{NewsErr: errors.New("feed down")},
		Store:     store,
		Container: "processeddata",
		NewsLimit: 5,
	}

	res := stage.Run(context.Background(), []string{"AAPL"})
	if res.Failed != 1 || res.Tickers != 0 {
		t.Errorf("result = %+v, want 1 failed", res)
	}
	if _, err := store.Download(context.Background(), "processeddata", artifact.SentimentBlob); err == nil {
		t.Errorf("no aggregate should be written when every ticker fails")
	}
}
