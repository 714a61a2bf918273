// Package metrics provides run observability for docnorm.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so single-shot CLI runs pay nothing; watch mode swaps in the
// Prometheus recorder when configured.
package metrics

import "time"

// Recorder receives counters from the normalization pipeline.
type Recorder interface {
	FileProcessed(changed bool)
	FileCopied()
	DiagramSanitized(flowchart bool)
	LabelsRelocated(n int)
	RunCompleted(d time.Duration)
}

// NoopRecorder is the default Recorder; every method does nothing.
type NoopRecorder struct{}

func (NoopRecorder) FileProcessed(bool)         {}
func (NoopRecorder) FileCopied()                {}
func (NoopRecorder) DiagramSanitized(bool)      {}
func (NoopRecorder) LabelsRelocated(int)        {}
func (NoopRecorder) RunCompleted(time.Duration) {}
