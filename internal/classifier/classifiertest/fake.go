// Package classifiertest provides a scripted Engine for tests.
package classifiertest

import (
	"sync"

	"github.com/mpromonet/edge-inference/internal/classifier"
	"github.com/mpromonet/edge-inference/internal/signal"
)

// Engine is a fake classifier.Engine. By default it echoes the input back as
// three categories "x", "y", "z" with OK status.
type Engine struct {
	// Status is returned from every call.
	Status classifier.Status
	// Result, when set, is returned instead of the echo result.
	Result *classifier.Result
	// ClassifyFunc, when set, overrides Status and Result.
	ClassifyFunc func(sig *signal.Signal, debug bool) (classifier.Status, *classifier.Result)

	mu     sync.Mutex
	calls  int
	inputs [][]float32
	closed bool
}

// Classify implements classifier.Engine.
func (e *Engine) Classify(sig *signal.Signal, debug bool) (classifier.Status, *classifier.Result) {
	values, _ := sig.ReadAll()

	e.mu.Lock()
	e.calls++
	e.inputs = append(e.inputs, values)
	e.mu.Unlock()

	if e.ClassifyFunc != nil {
		return e.ClassifyFunc(sig, debug)
	}
	if e.Status != classifier.OK {
		return e.Status, &classifier.Result{}
	}
	if e.Result != nil {
		return classifier.OK, e.Result
	}
	return classifier.OK, classifier.NewResult([]string{"x", "y", "z"}, values)
}

// Close records that the engine was released.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// Calls returns how many times Classify ran.
func (e *Engine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Inputs returns the signal contents seen by each call.
func (e *Engine) Inputs() [][]float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]float32(nil), e.inputs...)
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
