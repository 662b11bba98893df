package bridge

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpromonet/edge-inference/internal/classifier"
	"github.com/mpromonet/edge-inference/internal/classifier/classifiertest"
	"github.com/mpromonet/edge-inference/internal/config"
	"github.com/mpromonet/edge-inference/internal/inference"
	"github.com/mpromonet/edge-inference/internal/signal"
	"github.com/mpromonet/edge-inference/pkg/logger"
)

func install(t *testing.T, e classifier.Engine) {
	t.Helper()
	var buf bytes.Buffer
	Install(inference.New(e, inference.WithLogger(logger.New(&buf))))
	t.Cleanup(func() { _ = Shutdown() })
}

func TestRunInferenceUsesInstalledAdapter(t *testing.T) {
	engine := &classifiertest.Engine{Result: classifier.NewResult([]string{"idle"}, []float32{0.9})}
	install(t, engine)

	assert.Equal(t, float32(0.9), RunInference(1, 2, 3))
	assert.Equal(t, 1, engine.Calls())
}

func TestRunInferenceEngineFailure(t *testing.T) {
	install(t, &classifiertest.Engine{Status: classifier.TfliteError})

	assert.Equal(t, float32(-1), RunInference(1, 2, 3))

	score, status := RunInferenceChecked(1, 2, 3)
	assert.Equal(t, float32(-1), score)
	assert.Equal(t, int32(classifier.TfliteError), status)
}

func TestRunInferenceCheckedSuccess(t *testing.T) {
	install(t, &classifiertest.Engine{Result: classifier.NewResult(nil, []float32{0})})

	score, status := RunInferenceChecked(0, 0, 0)
	assert.Equal(t, float32(0), score)
	assert.Equal(t, int32(0), status)
}

func TestRunInferenceRecoversPanics(t *testing.T) {
	install(t, &classifiertest.Engine{ClassifyFunc: func(*signal.Signal, bool) (classifier.Status, *classifier.Result) {
		panic("engine crashed")
	}})

	assert.Equal(t, float32(-1), RunInference(1, 2, 3))
	_, status := RunInferenceChecked(1, 2, 3)
	assert.Equal(t, StatusNotReady, status)
}

func stubOpen(t *testing.T, f func(string, classifier.Options) (classifier.Engine, error)) {
	t.Helper()
	prev := openFunc
	openFunc = f
	t.Cleanup(func() {
		openFunc = prev
		_ = Shutdown()
	})
}

func TestLazyInitFromConfig(t *testing.T) {
	t.Setenv(config.EnvPrefix+"ENGINE", "fake")
	t.Setenv(config.EnvPrefix+"MODEL_PATH", "/models/gesture.tflite")
	t.Setenv(config.EnvPrefix+"NUM_THREADS", "2")

	engine := &classifiertest.Engine{}
	var opened []string
	var gotOpts classifier.Options
	stubOpen(t, func(name string, opts classifier.Options) (classifier.Engine, error) {
		opened = append(opened, name)
		gotOpts = opts
		return engine, nil
	})

	assert.Equal(t, float32(4), RunInference(4, 5, 6))
	assert.Equal(t, float32(7), RunInference(7, 8, 9))

	assert.Equal(t, []string{"fake"}, opened, "engine opened once")
	assert.Equal(t, "/models/gesture.tflite", gotOpts.ModelPath)
	assert.Equal(t, 2, gotOpts.NumThreads)
	assert.Equal(t, 2, engine.Calls())
}

func TestInitFailureReturnsSentinel(t *testing.T) {
	t.Setenv(config.EnvPrefix+"ENGINE", "fake")
	boom := errors.New("model missing")
	stubOpen(t, func(string, classifier.Options) (classifier.Engine, error) {
		return nil, boom
	})

	err := Init(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotReady)

	assert.Equal(t, float32(-1), RunInference(1, 2, 3))
	score, status := RunInferenceChecked(1, 2, 3)
	assert.Equal(t, float32(-1), score)
	assert.Equal(t, StatusNotReady, status)
}

func TestShutdownClosesEngine(t *testing.T) {
	engine := &classifiertest.Engine{}
	Install(inference.New(engine))

	require.NoError(t, Shutdown())
	assert.True(t, engine.Closed())
}

func TestRunInferenceCheckedEmptyResult(t *testing.T) {
	install(t, &classifiertest.Engine{Result: &classifier.Result{}})

	score, status := RunInferenceChecked(1, 2, 3)
	assert.Equal(t, float32(-1), score)
	assert.Equal(t, int32(inference.StatusEmptyResult), status)
	assert.NotEqual(t, int32(classifier.OutputTensorWasNull), status)
}

func TestShutdownConcurrentWithInference(t *testing.T) {
	t.Setenv(config.EnvPrefix+"ENGINE", "fake")
	stubOpen(t, func(string, classifier.Options) (classifier.Engine, error) {
		return &classifiertest.Engine{}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				score := RunInference(0.5, 0, 0)
				assert.Contains(t, []float32{0.5, -1}, score)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, Shutdown())
			}
		}()
	}
	wg.Wait()

	require.NoError(t, Init(context.Background()))
	assert.Equal(t, float32(0.5), RunInference(0.5, 0, 0))
}
