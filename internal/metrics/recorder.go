// Package metrics records archive activity. Components take a Recorder and
// default to NoopRecorder, so metrics are optional everywhere.
package metrics

import "time"

// Render outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeNotFound  = "not_found"
	OutcomeParse     = "parse_error"
	OutcomeTransform = "transform_error"
	OutcomeError     = "error"
)

// Recorder defines the observability hooks used by the catalog and service.
type Recorder interface {
	ObserveScan(d time.Duration, indexed, skipped int)
	ObserveRender(d time.Duration, outcome string)
	IncSearch(empty bool)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveScan(time.Duration, int, int)  {}
func (NoopRecorder) ObserveRender(time.Duration, string) {}
func (NoopRecorder) IncSearch(bool)                      {}
