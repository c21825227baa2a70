package cmd

import (
	"time"

	"github.com/mkelesidou/kausal-go/analytics"
)

// reportStage wraps a pipeline stage's execution with the started/
// completed/failed event triad, matching the teacher's scan/ci
// command instrumentation but scoped to a single named stage instead
// of a whole scan.
func reportStage(name string, fn func() error) error {
	start := time.Now()
	analytics.ReportEventWithProperties(analytics.StageStarted, map[string]interface{}{
		"stage": name,
	})
	err := fn()
	elapsedMs := time.Since(start).Milliseconds()
	if err != nil {
		analytics.ReportEventWithProperties(analytics.StageFailed, map[string]interface{}{
			"stage":      name,
			"elapsed_ms": elapsedMs,
		})
		return err
	}
	analytics.ReportEventWithProperties(analytics.StageCompleted, map[string]interface{}{
		"stage":      name,
		"elapsed_ms": elapsedMs,
	})
	return nil
}
