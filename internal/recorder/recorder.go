package recorder

import "FinSight/internal/model"

// Recorder persists pipeline run history for later analysis.
type Recorder interface {
	RecordRun(report *model.RunReport) error
	Close() error
}
