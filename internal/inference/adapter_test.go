package inference

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpromonet/edge-inference/internal/classifier"
	"github.com/mpromonet/edge-inference/internal/classifier/classifiertest"
	"github.com/mpromonet/edge-inference/internal/signal"
	"github.com/mpromonet/edge-inference/pkg/logger"
	"github.com/mpromonet/edge-inference/pkg/metrics"
)

func newAdapter(t *testing.T, e classifier.Engine, opts ...Option) (*Adapter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts = append([]Option{WithLogger(logger.New(&buf))}, opts...)
	return New(e, opts...), &buf
}

func TestRunReturnsFirstCategory(t *testing.T) {
	engine := &classifiertest.Engine{Result: classifier.NewResult(
		[]string{"idle", "wave", "snake"}, []float32{0.1, 0.85, 0.05})}
	a, _ := newAdapter(t, engine)

	// The first category is returned even when it is not the top score.
	assert.Equal(t, float32(0.1), a.Run(1, 2, 3))
	assert.Equal(t, 1, engine.Calls())
	assert.Equal(t, [][]float32{{1, 2, 3}}, engine.Inputs())
}

func TestRunPassesSampleThrough(t *testing.T) {
	engine := &classifiertest.Engine{}
	a, _ := newAdapter(t, engine)

	for _, in := range [][3]float32{{0.3, -9.81, 1e6}, {-1, -1, -1}} {
		got := a.Run(in[0], in[1], in[2])
		assert.Equal(t, in[0], got)
	}
	assert.Equal(t, [][]float32{{0.3, -9.81, 1e6}, {-1, -1, -1}}, engine.Inputs())
}

func TestRunFailureReturnsSentinel(t *testing.T) {
	statuses := []classifier.Status{
		classifier.ShapesDontMatch, classifier.TfliteError, classifier.DspError,
		classifier.OutOfMemory, classifier.Status(-99),
	}
	inputs := [][3]float32{{0, 0, 0}, {1, 2, 3}, {-5, 100, 0.5}}

	for _, status := range statuses {
		for _, in := range inputs {
			engine := &classifiertest.Engine{Status: status}
			a, buf := newAdapter(t, engine)

			assert.Equal(t, float32(-1.0), a.Run(in[0], in[1], in[2]))
			assert.Equal(t, 1, engine.Calls(), "no retries")
			assert.Contains(t, buf.String(), "Error running classifier")
		}
	}
}

func TestRunAllZeroInputIsNotSpecialCased(t *testing.T) {
	engine := &classifiertest.Engine{Result: classifier.NewResult([]string{"idle"}, []float32{0.42})}
	a, _ := newAdapter(t, engine)

	assert.Equal(t, float32(0.42), a.Run(0, 0, 0))
	assert.Equal(t, 1, engine.Calls())
	assert.Equal(t, [][]float32{{0, 0, 0}}, engine.Inputs())
}

func TestRunZeroScoreIsNotFailure(t *testing.T) {
	engine := &classifiertest.Engine{Result: classifier.NewResult([]string{"idle", "wave"}, []float32{0, 1})}
	a, buf := newAdapter(t, engine)

	assert.Equal(t, float32(0), a.Run(1, 1, 1))
	assert.NotContains(t, buf.String(), "Error running classifier")
}

func TestRunIsIdempotent(t *testing.T) {
	engine := &classifiertest.Engine{ClassifyFunc: func(sig *signal.Signal, _ bool) (classifier.Status, *classifier.Result) {
		v, _ := sig.ReadAll()
		return classifier.OK, classifier.NewResult(nil, []float32{(v[0] + v[1] + v[2]) / 30})
	}}
	a, _ := newAdapter(t, engine)

	first := a.Run(1, 2, 3)
	second := a.Run(1, 2, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, engine.Calls())
}

func TestRunForwardsDebugFlag(t *testing.T) {
	var gotDebug bool
	engine := &classifiertest.Engine{ClassifyFunc: func(_ *signal.Signal, debug bool) (classifier.Status, *classifier.Result) {
		gotDebug = debug
		return classifier.OK, classifier.NewResult(nil, []float32{1})
	}}
	a, _ := newAdapter(t, engine, WithDebug(true))
	a.Run(0, 0, 0)
	assert.True(t, gotDebug)
}

func TestInferTaggedResult(t *testing.T) {
	engine := &classifiertest.Engine{Result: classifier.NewResult([]string{"idle", "wave"}, []float32{0.6, 0.4})}
	a, _ := newAdapter(t, engine)

	p, err := a.Infer(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "idle", p.Label)
	assert.Equal(t, float32(0.6), p.Score)
	assert.Len(t, p.Result.Classification, 2)
}

func TestInferEngineError(t *testing.T) {
	engine := &classifiertest.Engine{Status: classifier.DspError}
	a, _ := newAdapter(t, engine)

	p, err := a.Infer(1, 2, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEngine))

	var engineErr *EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, classifier.DspError, engineErr.Status)
	assert.Equal(t, Sentinel, p.Score)
	assert.Contains(t, err.Error(), "(-5)")
}

func TestInferEmptyResult(t *testing.T) {
	engine := &classifiertest.Engine{Result: &classifier.Result{}}
	a, _ := newAdapter(t, engine)

	_, err := a.Infer(1, 2, 3)
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Equal(t, Sentinel, a.Run(1, 2, 3))
}

func TestAdapterRecordsMetrics(t *testing.T) {
	m := metrics.NewManager()
	engine := &classifiertest.Engine{}
	a, _ := newAdapter(t, engine, WithMetrics(m))

	a.Run(0.5, 0, 0)
	engine.Status = classifier.TfliteError
	a.Run(0.5, 0, 0)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[f.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[f.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["edge_inference_inferences_total"])
	assert.Equal(t, 1.0, values["edge_inference_inference_failures_total"])
	assert.Equal(t, 0.5, values["edge_inference_last_score"])
}

func TestEmptyResultHasItsOwnStatus(t *testing.T) {
	m := metrics.NewManager()
	a, _ := newAdapter(t, &classifiertest.Engine{Result: &classifier.Result{}}, WithMetrics(m))

	assert.Equal(t, Sentinel, a.Run(1, 2, 3))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var labels []string
	for _, f := range families {
		if f.GetName() != "edge_inference_inference_failures_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				labels = append(labels, lp.GetValue())
			}
		}
	}
	assert.Equal(t, []string{"-101"}, labels)
}
