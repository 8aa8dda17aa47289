// Package artifact encodes and decodes the CSV blobs the pipeline
// stages exchange through the object store. Every artifact is UTF-8
// CSV text and is overwritten wholesale each run.
package artifact

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"FinSight/internal/model"
)

// Aggregate artifact blob names.
const (
	InsightsBlob    = "ai_insights.csv"
	PredictionsBlob = "lstm_predictions.csv"
	SentimentBlob   = "sentiment_analysis.csv"
)

const dateLayout = "2006-01-02"

// RawBlobName returns the per-ticker raw artifact name.
func RawBlobName(ticker string) string { return ticker + "_raw.csv" }

// ProcessedBlobName returns the per-ticker processed artifact name.
func ProcessedBlobName(ticker string) string { return ticker + "_processed.csv" }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodeRaw renders a raw OHLCV series with the date index included as
// the leading column.
func EncodeRaw(s *model.Series) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Open", "High", "Low", "Close", "Volume"}); err != nil {
		return nil, err
	}
	for _, b := range s.Bars {
		rec := []string{
			b.Date.Format(dateLayout),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// EncodeProcessed renders a processed series with the date as an
// explicit leading column so consumers need not assume an index
// representation. The first row's return_pct is empty.
func EncodeProcessed(p *model.ProcessedSeries) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Open", "High", "Low", "Close", "Volume", "return_pct"}); err != nil {
		return nil, err
	}
	for _, r := range p.Rows {
		ret := ""
		if r.ReturnPct != nil {
			ret = formatFloat(*r.ReturnPct)
		}
		rec := []string{
			r.Date.Format(dateLayout),
			formatFloat(r.Open),
			formatFloat(r.High),
			formatFloat(r.Low),
			formatFloat(r.Close),
			formatFloat(r.Volume),
			ret,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DecodeProcessed parses a processed artifact back into a series.
func DecodeProcessed(ticker string, data []byte) (*model.ProcessedSeries, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse processed csv: %w", err)
	}
	p := &model.ProcessedSeries{Ticker: ticker}
	if len(records) <= 1 {
		return p, nil
	}
	for i, rec := range records[1:] {
		if len(rec) < 7 {
			return nil, fmt.Errorf("processed csv row %d: want 7 fields, got %d", i+1, len(rec))
		}
		date, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("processed csv row %d: %w", i+1, err)
		}
		row := model.ProcessedBar{Bar: model.Bar{Date: date}}
		fields := []*float64{&row.Open, &row.High, &row.Low, &row.Close, &row.Volume}
		for j, dst := range fields {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("processed csv row %d col %d: %w", i+1, j+1, err)
			}
			*dst = v
		}
		if rec[6] != "" {
			v, err := strconv.ParseFloat(rec[6], 64)
			if err != nil {
				return nil, fmt.Errorf("processed csv row %d return_pct: %w", i+1, err)
			}
			row.ReturnPct = &v
		}
		p.Rows = append(p.Rows, row)
	}
	return p, nil
}

// EncodeInsights renders the per-run insight aggregate.
func EncodeInsights(insights []model.Insight) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Ticker", "Insight", "Date"}); err != nil {
		return nil, err
	}
	for _, in := range insights {
		if err := w.Write([]string{in.Ticker, in.Insight, in.Date}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DecodeInsights parses the insight aggregate.
func DecodeInsights(data []byte) ([]model.Insight, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse insights csv: %w", err)
	}
	var insights []model.Insight
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("insights csv row %d: want 3 fields, got %d", i, len(rec))
		}
		insights = append(insights, model.Insight{Ticker: rec[0], Insight: rec[1], Date: rec[2]})
	}
	return insights, nil
}

// EncodePredictions renders the per-run prediction aggregate.
func EncodePredictions(preds []model.Prediction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"Ticker", "Current Price", "Predicted 1D Price", "Direction", "Predicted % Change", "Date"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range preds {
		rec := []string{
			p.Ticker,
			formatFloat(p.CurrentPrice),
			formatFloat(p.PredictedPrice),
			p.Direction,
			formatFloat(p.PredictedPctChg),
			p.Date,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DecodePredictions parses the prediction aggregate.
func DecodePredictions(data []byte) ([]model.Prediction, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse predictions csv: %w", err)
	}
	var preds []model.Prediction
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 6 {
			return nil, fmt.Errorf("predictions csv row %d: want 6 fields, got %d", i, len(rec))
		}
		cur, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("predictions csv row %d current price: %w", i, err)
		}
		pred, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("predictions csv row %d predicted price: %w", i, err)
		}
		pct, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("predictions csv row %d pct change: %w", i, err)
		}
		preds = append(preds, model.Prediction{
			Ticker:          rec[0],
			CurrentPrice:    cur,
			PredictedPrice:  pred,
			Direction:       rec[3],
			PredictedPctChg: pct,
			Date:            rec[5],
		})
	}
	return preds, nil
}

// EncodeSentiment renders the per-run sentiment aggregate, one row per
// headline across all tickers.
func EncodeSentiment(items []model.NewsSentiment) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"ticker", "title", "link", "sentiment_score", "sentiment_label", "subjectivity", "fetched_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, it := range items {
		rec := []string{
			it.Ticker,
			it.Title,
			it.Link,
			formatFloat(it.Score),
			it.Label,
			formatFloat(it.Subjectivity),
			it.FetchedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DecodeSentiment parses the sentiment aggregate.
func DecodeSentiment(data []byte) ([]model.NewsSentiment, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sentiment csv: %w", err)
	}
	var items []model.NewsSentiment
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 7 {
			return nil, fmt.Errorf("sentiment csv row %d: want 7 fields, got %d", i, len(rec))
		}
		score, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("sentiment csv row %d score: %w", i, err)
		}
		subj, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			return nil, fmt.Errorf("sentiment csv row %d subjectivity: %w", i, err)
		}
		fetched, err := time.Parse(time.RFC3339, rec[6])
		if err != nil {
			return nil, fmt.Errorf("sentiment csv row %d fetched_at: %w", i, err)
		}
		items = append(items, model.NewsSentiment{
			Ticker:       rec[0],
			Title:        rec[1],
			Link:         rec[2],
			Score:        score,
			Label:        rec[4],
			Subjectivity: subj,
			FetchedAt:    fetched,
		})
	}
	return items, nil
}
