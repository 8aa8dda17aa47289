package model

import "time"

// StageResult summarises one pipeline stage within a run.
type StageResult struct {
	Stage    string
	Tickers  int // tickers that produced output
	Skipped  int // expected skips (insufficient data, missing blobs)
	Failed   int // per-ticker failures
	Err      error
	Duration time.Duration
}

// RunReport summarises one complete pipeline run for the recorder and
// the notifier.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Tickers    []string
	Stages     []StageResult
}

// Failed reports whether any stage recorded a stage-level error.
func (r *RunReport) Failed() bool {
	for _, s := range r.Stages {
		if s.Err != nil {
			return true
		}
	}
	return false
}
