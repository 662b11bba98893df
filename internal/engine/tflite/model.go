// Package tflite runs an exported TensorFlow Lite classifier through
// github.com/mattn/go-tflite. Importing it registers the "tflite" engine.
package tflite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-tflite"

	"github.com/mpromonet/edge-inference/internal/classifier"
	"github.com/mpromonet/edge-inference/internal/signal"
	"github.com/mpromonet/edge-inference/pkg/logger"
)

// EngineName is the registry name of this engine.
const EngineName = "tflite"

var ErrModel = errors.New("tflite model error")

func init() {
	classifier.Register(EngineName, func(opts classifier.Options) (classifier.Engine, error) {
		return NewModel(opts)
	})
}

// Model owns a loaded model and its interpreter. The interpreter is not safe
// for concurrent use, so Classify holds mu for the whole invocation.
type Model struct {
	mu     sync.Mutex
	model  *tflite.Model
	interp *tflite.Interpreter
	labels []string
	inputs int
	log    logger.Logger
}

// NewModel loads the model and labels and allocates the interpreter tensors.
func NewModel(opts classifier.Options) (*Model, error) {
	log := logger.Named("tflite")
	ctx := context.Background()

	labels := []string{}
	if opts.LabelPath != "" {
		l, err := classifier.LoadLabels(opts.LabelPath)
		if err != nil {
			return nil, err
		}
		labels = l
	}

	model := tflite.NewModelFromFile(opts.ModelPath)
	if model == nil {
		return nil, fmt.Errorf("%w: cannot load model %s", ErrModel, opts.ModelPath)
	}

	options := tflite.NewInterpreterOptions()
	defer options.Delete()

	options.SetNumThread(opts.NumThreads)
	options.SetErrorReporter(func(msg string, _ interface{}) {
		log.Error(ctx, "interpreter", logger.String("message", msg))
	}, nil)

	if opts.Delegate == "edgetpu" {
		addDelegate(ctx, log, options)
	}

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		model.Delete()
		return nil, fmt.Errorf("%w: cannot create interpreter", ErrModel)
	}

	status := interpreter.AllocateTensors()
	if status != tflite.OK {
		interpreter.Delete()
		model.Delete()
		return nil, fmt.Errorf("%w: allocate failed", ErrModel)
	}

	input := interpreter.GetInputTensor(0)
	m := &Model{
		model:  model,
		interp: interpreter,
		labels: labels,
		inputs: elementCount(input),
		log:    log,
	}
	log.Info(ctx, "model loaded",
		logger.String("path", opts.ModelPath),
		logger.Any("input_shape", getTensorShape(input)),
		logger.Any("input_type", input.Type()),
		logger.Int("labels", len(labels)))
	if m.inputs != signal.Axes {
		log.Warn(ctx, "model input does not match a 3-axis sample",
			logger.Int("elements", m.inputs), logger.Int("axes", signal.Axes))
	}
	return m, nil
}

// Classify implements classifier.Engine.
func (m *Model) Classify(sig *signal.Signal, debug bool) (classifier.Status, *classifier.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.interp == nil {
		return classifier.UnsupportedInferencingEngine, nil
	}
	if sig.Total != m.inputs {
		return classifier.ShapesDontMatch, nil
	}
	features, err := sig.ReadAll()
	if err != nil {
		return classifier.DspError, nil
	}

	ctx := context.Background()
	if debug {
		m.log.Info(ctx, "features", logger.Any("values", features))
	}

	input := m.interp.GetInputTensor(0)
	if input == nil {
		return classifier.InputTensorWasNull, nil
	}
	if status := fillInput(input, features); status != classifier.OK {
		return status, nil
	}

	start := time.Now()
	if status := m.interp.Invoke(); status != tflite.OK {
		return classifier.TfliteError, nil
	}
	elapsed := time.Since(start)

	output := m.interp.GetOutputTensor(0)
	if output == nil {
		return classifier.OutputTensorWasNull, nil
	}
	values, status := extractOutput(output)
	if status != classifier.OK {
		return status, nil
	}

	result := classifier.NewResult(m.labels, values)
	result.Timing.Classification = elapsed
	if debug {
		m.log.Info(ctx, "classification", logger.Any("result", result.Classification))
	}
	return classifier.OK, result
}

// Close releases the interpreter and the model.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.interp != nil {
		m.interp.Delete()
		m.interp = nil
	}
	if m.model != nil {
		m.model.Delete()
		m.model = nil
	}
	return nil
}

func getTensorShape(tensor *tflite.Tensor) []int {
	shape := []int{}
	for idx := 0; idx < tensor.NumDims(); idx++ {
		shape = append(shape, tensor.Dim(idx))
	}
	return shape
}

func elementCount(tensor *tflite.Tensor) int {
	total := 1
	for _, d := range getTensorShape(tensor) {
		total *= d
	}
	return total
}
