package predictor

import (
	"context"
	"math"
	"testing"
	"time"

	"FinSight/internal/artifact"
	"FinSight/internal/model"
	"FinSight/internal/storage"
)

func rampSeries(ticker string, n int, start, step float64) *model.ProcessedSeries {
	p := &model.ProcessedSeries{Ticker: ticker}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := start + float64(i)*step
		p.Rows = append(p.Rows, model.ProcessedBar{Bar: model.Bar{
			Date: base.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000,
		}})
	}
	return p
}

func TestPredictTooFewRows(t *testing.T) {
	p := rampSeries("AAPL", MinRows-1, 100, 1)
	pred, err := Predict(p)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred != nil {
		t.Errorf("series below %d rows should be skipped, got %+v", MinRows, pred)
	}
}

func TestPredictBoundary(t *testing.T) {
	p := rampSeries("AAPL", MinRows, 100, 1)
	pred, err := Predict(p)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred == nil {
		t.Fatalf("series with exactly %d rows should predict", MinRows)
	}
}

func TestPredictUptrend(t *testing.T) {
	p := rampSeries("AAPL", 120, 100, 1)
	pred, err := Predict(p)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred == nil {
		t.Fatal("expected a prediction")
	}
	if math.IsNaN(pred.PredictedPrice) || math.IsInf(pred.PredictedPrice, 0) {
		t.Fatalf("non-finite prediction: %v", pred.PredictedPrice)
	}
	if pred.Direction != model.DirectionUp {
		t.Errorf("direction = %q on a strictly increasing series, want %q", pred.Direction, model.DirectionUp)
	}
	if pred.CurrentPrice != p.LastClose() {
		t.Errorf("current price = %v, want %v", pred.CurrentPrice, p.LastClose())
	}
	if math.Abs(pred.PredictedPctChg) > 50 {
		t.Errorf("predicted change %v%% is implausible for a smooth ramp", pred.PredictedPctChg)
	}
}

func TestPredictDeterministic(t *testing.T) {
	p := rampSeries("AAPL", 120, 100, 1)
	a, err := Predict(p)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	b, err := Predict(p)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if a.PredictedPrice != b.PredictedPrice {
		t.Errorf("same input gave %v then %v", a.PredictedPrice, b.PredictedPrice)
	}
}

func TestRunSkipsAndUploads(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()

	long := rampSeries("AAPL", 120, 100, 1)
	short := rampSeries("MSFT", 50, 200, 1)
	for _, p := range []*model.ProcessedSeries{long, short} {
		data, err := artifact.EncodeProcessed(p)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if err := store.Upload(ctx, "processeddata", artifact.ProcessedBlobName(p.Ticker), data); err != nil {
			t.Fatalf("upload: %v", err)
		}
	}

	stage := &Stage{Store: store, ProcessedContainer: "processeddata"}
	res := stage.Run(ctx, []string{"AAPL", "MSFT", "TSLA"})

	if res.Tickers != 1 {
		t.Errorf("predicted tickers = %d, want 1", res.Tickers)
	}
	if res.Skipped != 2 {
		t.Errorf("skipped = %d, want 2 (short series + missing blob)", res.Skipped)
	}

	data, err := store.Download(ctx, "processeddata", artifact.PredictionsBlob)
	if err != nil {
		t.Fatalf("download predictions: %v", err)
	}
	preds, err := artifact.DecodePredictions(data)
	if err != nil {
		t.Fatalf("decode predictions: %v", err)
	}
	if len(preds) != 1 || preds[0].Ticker != "AAPL" {
		t.Errorf("aggregate = %+v, want one AAPL row", preds)
	}
}
