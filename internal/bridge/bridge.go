// Package bridge holds the process-wide adapter behind the exported C symbols.
// Hosts call in without any setup, so the adapter is built lazily from
// configuration on first use.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mpromonet/edge-inference/internal/classifier"
	"github.com/mpromonet/edge-inference/internal/config"
	"github.com/mpromonet/edge-inference/internal/inference"
	"github.com/mpromonet/edge-inference/pkg/logger"
	"github.com/mpromonet/edge-inference/pkg/metrics"
)

// StatusNotReady is reported by RunInferenceChecked when no adapter could be
// built. It sits outside the engine's status range.
const StatusNotReady int32 = -100

// ErrNotReady wraps the initialisation failure.
var ErrNotReady = errors.New("inference bridge not ready")

// mu guards every variable below. initOnce is swapped by Shutdown, so it is
// only read under mu and Do is called on the captured pointer.
var (
	mu       sync.Mutex
	initOnce = new(sync.Once)
	adapter  *inference.Adapter
	initErr  error
	openFunc = classifier.Open
)

func currentOnce() *sync.Once {
	mu.Lock()
	defer mu.Unlock()
	return initOnce
}

// Install sets the adapter used by RunInference, replacing any previous one.
func Install(a *inference.Adapter) {
	currentOnce().Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	adapter = a
	initErr = nil
}

// Init builds the adapter from configuration once. Later calls return the
// first outcome until Shutdown.
func Init(ctx context.Context) error {
	o := currentOnce()
	o.Do(func() {
		a, err := build(ctx)
		mu.Lock()
		defer mu.Unlock()
		if o != initOnce {
			// Shutdown ran while building; drop the result.
			closeEngine(a)
			return
		}
		adapter, initErr = a, err
	})
	mu.Lock()
	defer mu.Unlock()
	return initErr
}

func build(ctx context.Context) (*inference.Adapter, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	return NewAdapter(ctx, cfg, nil)
}

// NewAdapter opens the configured engine and wraps it in an adapter.
func NewAdapter(ctx context.Context, cfg *config.Config, m *metrics.Manager) (*inference.Adapter, error) {
	engine, err := openFunc(cfg.Engine, classifier.Options{
		ModelPath:  cfg.ModelPath,
		LabelPath:  cfg.LabelPath,
		NumThreads: cfg.NumThreads,
		Delegate:   cfg.Delegate,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open engine %s: %v", ErrNotReady, cfg.Engine, err)
	}
	logger.Named("bridge").Info(ctx, "engine opened", logger.String("engine", cfg.Engine))
	return inference.New(engine, inference.WithDebug(cfg.Debug), inference.WithMetrics(m)), nil
}

func current() (*inference.Adapter, error) {
	if err := Init(context.Background()); err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	if adapter == nil {
		return nil, ErrNotReady
	}
	return adapter, nil
}

// RunInference returns the first class score for (x, y, z), or -1 when the
// bridge is not ready or the engine fails.
func RunInference(x, y, z float32) (score float32) {
	defer func() {
		if r := recover(); r != nil {
			logger.Named("bridge").Error(context.Background(), "panic in inference", logger.Any("panic", r))
			score = inference.Sentinel
		}
	}()

	a, err := current()
	if err != nil {
		logger.Named("bridge").Error(context.Background(), "inference unavailable", logger.Error(err))
		return inference.Sentinel
	}
	return a.Run(x, y, z)
}

// RunInferenceChecked is RunInference with an explicit status: 0 on success,
// the engine status on engine failure, StatusNotReady otherwise.
func RunInferenceChecked(x, y, z float32) (score float32, status int32) {
	defer func() {
		if r := recover(); r != nil {
			logger.Named("bridge").Error(context.Background(), "panic in inference", logger.Any("panic", r))
			score, status = inference.Sentinel, StatusNotReady
		}
	}()

	a, err := current()
	if err != nil {
		logger.Named("bridge").Error(context.Background(), "inference unavailable", logger.Error(err))
		return inference.Sentinel, StatusNotReady
	}
	p, err := a.Infer(x, y, z)
	var engineErr *inference.EngineError
	switch {
	case err == nil:
		return p.Score, int32(classifier.OK)
	case errors.As(err, &engineErr):
		return inference.Sentinel, int32(engineErr.Status)
	default:
		return inference.Sentinel, int32(inference.StatusEmptyResult)
	}
}

// Shutdown closes the engine if it holds native resources and resets the
// bridge so the next call initialises again. Calls already holding the old
// adapter finish against it, so engines must tolerate Classify after Close.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()
	err := closeEngine(adapter)
	adapter, initErr = nil, nil
	initOnce = new(sync.Once)
	return err
}

func closeEngine(a *inference.Adapter) error {
	if a == nil {
		return nil
	}
	if c, ok := a.Engine().(io.Closer); ok {
		return c.Close()
	}
	return nil
}
