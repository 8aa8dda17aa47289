// Package predictor trains a small recurrent regressor per ticker on
// its scaled close-price series and emits a next-day price prediction.
// Models are trained from scratch every run; no state persists.
package predictor

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"FinSight/internal/artifact"
	"FinSight/internal/model"
	"FinSight/internal/storage"
)

const trainSeed = 42

// Available reports whether the modeling backend can run. The native
// backend is always compiled in; the pipeline consults this once at
// startup and skips the stage entirely when it is false.
func Available() bool { return true }

// Stage generates the per-run prediction aggregate.
type Stage struct {
	Store              storage.ObjectStore
	ProcessedContainer string
}

// Predict trains on the series and returns the next-day prediction.
// It returns (nil, nil) when the series is too short or yields no
// training windows, an expected skip. A non-finite model output is an
// error for this ticker.
func Predict(p *model.ProcessedSeries) (*model.Prediction, error) {
	if p.Len() < MinRows {
		log.Printf("[WARN] not enough data to train model for %s: need >= %d rows, have %d", p.Ticker, MinRows, p.Len())
		return nil, nil
	}

	closes := p.Closes()
	scaler := FitScaler(closes)
	scaled := scaler.TransformAll(closes)

	inputs, targets := BuildWindows(scaled, Lookback)
	if len(inputs) == 0 {
		return nil, nil
	}

	net := newNetwork(trainSeed)
	net.train(inputs, targets)

	predicted := scaler.Inverse(net.predict(scaled[len(scaled)-Lookback:]))
	if math.IsNaN(predicted) || math.IsInf(predicted, 0) {
		return nil, fmt.Errorf("non-finite prediction for %s", p.Ticker)
	}

	current := p.LastClose()
	direction := model.DirectionDown
	if predicted > current {
		direction = model.DirectionUp
	}
	pctChange := 0.0
	if current != 0 {
		pctChange = (predicted - current) / current * 100
	}

	return &model.Prediction{
		Ticker:          p.Ticker,
		CurrentPrice:    current,
		PredictedPrice:  predicted,
		Direction:       direction,
		PredictedPctChg: pctChange,
		Date:            time.Now().Format("2006-01-02"),
	}, nil
}

// Run predicts for all tickers and uploads the aggregate. Tickers
// without a processed artifact or with too little data are skipped.
func (s *Stage) Run(ctx context.Context, tickers []string) model.StageResult {
	start := time.Now()
	res := model.StageResult{Stage: "prediction"}
	log.Println("[INFO] starting prediction pipeline")

	var preds []model.Prediction
	for _, ticker := range tickers {
		p, err := artifact.LoadProcessed(ctx, s.Store, s.ProcessedContainer, ticker)
		if err != nil {
			log.Printf("[ERROR] prediction load %s: %v", ticker, err)
			res.Failed++
			continue
		}
		if p == nil {
			res.Skipped++
			continue
		}

		pred, err := Predict(p)
		if err != nil {
			log.Printf("[ERROR] prediction for %s: %v", ticker, err)
			res.Failed++
			continue
		}
		if pred == nil {
			res.Skipped++
			continue
		}

		preds = append(preds, *pred)
		res.Tickers++
		log.Printf("[INFO] prediction for %s: %.2f (%s)", ticker, pred.PredictedPrice, pred.Direction)
	}

	if len(preds) > 0 {
		data, err := artifact.EncodePredictions(preds)
		if err != nil {
			res.Err = fmt.Errorf("encode predictions: %w", err)
		} else if err := s.Store.Upload(ctx, s.ProcessedContainer, artifact.PredictionsBlob, data); err != nil {
			res.Err = err
		}
	}

	res.Duration = time.Since(start)
	return res
}
