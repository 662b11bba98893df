// Package inference forwards one 3-axis sample to a classifier engine and
// reports the score of the first class.
package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/mpromonet/edge-inference/internal/classifier"
	"github.com/mpromonet/edge-inference/internal/signal"
	"github.com/mpromonet/edge-inference/pkg/logger"
	"github.com/mpromonet/edge-inference/pkg/metrics"
)

// Sentinel is what Run returns when the engine fails. Engines never produce
// negative confidences, so callers treat any negative value as failure.
const Sentinel float32 = -1.0

// StatusEmptyResult labels an OK call that produced no categories. It sits
// outside the engine's status range, next to the bridge's not-ready code.
const StatusEmptyResult classifier.Status = -101

// Prediction is the tagged outcome of Infer.
type Prediction struct {
	// Label and Score describe the first category of the result.
	Label  string
	Score  float32
	Result *classifier.Result
}

// Adapter is stateless apart from its collaborators and may be shared by
// goroutines when the engine allows it.
type Adapter struct {
	engine  classifier.Engine
	debug   bool
	log     logger.Logger
	metrics *metrics.Manager
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithDebug forwards the debug flag to every Classify call.
func WithDebug(debug bool) Option {
	return func(a *Adapter) { a.debug = debug }
}

// WithLogger replaces the process logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMetrics records every call on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(a *Adapter) { a.metrics = m }
}

// New returns an adapter calling engine.
func New(engine classifier.Engine, opts ...Option) *Adapter {
	a := &Adapter{engine: engine}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Named("inference")
	}
	return a
}

// Engine returns the wrapped engine.
func (a *Adapter) Engine() classifier.Engine {
	return a.engine
}

// Run classifies (x, y, z) and returns the value of the first category, or
// Sentinel when the engine fails. Input is not validated.
func (a *Adapter) Run(x, y, z float32) float32 {
	p, err := a.Infer(x, y, z)
	if err != nil {
		return Sentinel
	}
	return p.Score
}

// Infer classifies (x, y, z) with a single engine call and returns the first
// category of the result.
func (a *Adapter) Infer(x, y, z float32) (Prediction, error) {
	features := signal.Sample{X: x, Y: y, Z: z}.Features()
	sig := signal.FromBuffer(features[:])

	start := time.Now()
	status, result := a.engine.Classify(sig, a.debug)
	elapsed := time.Since(start)

	ctx := context.Background()
	if status != classifier.OK {
		a.log.Error(ctx, fmt.Sprintf("Error running classifier (%d)", int32(status)),
			logger.String("status", status.String()))
		a.metrics.ObserveInference(elapsed, int32(status), Sentinel)
		return Prediction{Score: Sentinel, Result: result}, &EngineError{Status: status}
	}
	if result == nil || len(result.Classification) == 0 {
		a.log.Error(ctx, "classifier returned no categories")
		a.metrics.ObserveInference(elapsed, int32(StatusEmptyResult), Sentinel)
		return Prediction{Score: Sentinel, Result: result}, ErrEmptyResult
	}

	first := result.Classification[0]
	a.metrics.ObserveInference(elapsed, int32(classifier.OK), first.Value)
	a.log.Debug(ctx, "classified sample",
		logger.Float32("x", x), logger.Float32("y", y), logger.Float32("z", z),
		logger.String("label", first.Label), logger.Float32("score", first.Value))
	return Prediction{Label: first.Label, Score: first.Value, Result: result}, nil
}
