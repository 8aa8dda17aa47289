// Package pipeline sequences the ETL, insight, prediction, and
// sentiment stages. Per-ticker failures are isolated inside each
// stage; a whole-stage failure is logged here and never aborts the
// stages after it.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"FinSight/internal/etl"
	"FinSight/internal/insight"
	"FinSight/internal/model"
	"FinSight/internal/predictor"
	"FinSight/internal/recorder"
	"FinSight/internal/sentiment"
)

// Pipeline owns execution order and failure isolation; the stages own
// their artifacts.
type Pipeline struct {
	Tickers   []string
	ETL       *etl.Stage
	Insight   *insight.Stage
	Predictor *predictor.Stage
	Sentiment *sentiment.Stage
	Recorder  recorder.Recorder

	predictorReady bool
}

// New builds a pipeline. The modeling backend's availability is
// checked once here; when unavailable the prediction stage is skipped
// for every run with a logged reason rather than degraded silently.
func New(tickers []string, e *etl.Stage, i *insight.Stage, p *predictor.Stage, s *sentiment.Stage, rec recorder.Recorder) *Pipeline {
	ready := predictor.Available()
	if !ready {
		log.Println("[WARN] modeling backend unavailable, prediction stage will be skipped")
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Pipeline{
		Tickers:        tickers,
		ETL:            e,
		Insight:        i,
		Predictor:      p,
		Sentiment:      s,
		Recorder:       rec,
		predictorReady: ready,
	}
}

// runStage isolates one stage: a panic or stage-level error is
// captured into the result instead of aborting the run.
func runStage(name string, fn func() model.StageResult) (res model.StageResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] %s stage panicked: %v", name, r)
			res = model.StageResult{Stage: name, Err: fmt.Errorf("stage panic: %v", r)}
		}
	}()
	res = fn()
	if res.Err != nil {
		log.Printf("[ERROR] %s stage: %v", name, res.Err)
	}
	return res
}

// Run executes one complete pipeline pass and records the report.
func (p *Pipeline) Run(ctx context.Context) *model.RunReport {
	log.Println("[INFO] starting ETL pipeline...")
	report := &model.RunReport{StartedAt: time.Now().UTC(), Tickers: p.Tickers}

	report.Stages = append(report.Stages, runStage("etl", func() model.StageResult {
		return p.ETL.Run(ctx, p.Tickers)
	}))

	report.Stages = append(report.Stages, runStage("insight", func() model.StageResult {
		return p.Insight.Run(ctx, p.Tickers)
	}))

	if p.predictorReady {
		report.Stages = append(report.Stages, runStage("prediction", func() model.StageResult {
			return p.Predictor.Run(ctx, p.Tickers)
		}))
	} else {
		report.Stages = append(report.Stages, model.StageResult{
			Stage: "prediction",
			Err:   fmt.Errorf("modeling backend unavailable"),
		})
	}

	if p.Sentiment != nil {
		report.Stages = append(report.Stages, runStage("sentiment", func() model.StageResult {
			return p.Sentiment.Run(ctx, p.Tickers)
		}))
	}

	report.FinishedAt = time.Now().UTC()
	if err := p.Recorder.RecordRun(report); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	log.Printf("[INFO] pipeline run finished in %s", report.FinishedAt.Sub(report.StartedAt).Round(time.Second))
	return report
}
