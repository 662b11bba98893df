//go:build eisdk

// Package eisdk links an exported Edge Impulse C++ library and exposes its
// run_classifier entry point as the "eisdk" engine.
//
// The exported project is expected under sdk/ (edge-impulse-sdk,
// model-parameters, tflite-model) with the compiled objects archived in
// sdk/build/libedgeimpulse.a.
package eisdk

/*
#cgo CXXFLAGS: -std=c++11 -Os -DNDEBUG -fPIC
#cgo CXXFLAGS: -DTF_LITE_DISABLE_X86_NEON=1 -Wno-strict-aliasing
#cgo CXXFLAGS: -I${SRCDIR}/sdk
#cgo CXXFLAGS: -I${SRCDIR}/sdk/edge-impulse-sdk
#cgo CXXFLAGS: -I${SRCDIR}/sdk/edge-impulse-sdk/tensorflow
#cgo CXXFLAGS: -I${SRCDIR}/sdk/edge-impulse-sdk/third_party
#cgo CXXFLAGS: -I${SRCDIR}/sdk/edge-impulse-sdk/third_party/flatbuffers/include
#cgo CXXFLAGS: -I${SRCDIR}/sdk/edge-impulse-sdk/third_party/gemmlowp
#cgo CXXFLAGS: -I${SRCDIR}/sdk/edge-impulse-sdk/third_party/ruy
#cgo CXXFLAGS: -I${SRCDIR}/sdk/edge-impulse-sdk/CMSIS/Core/Include
#cgo CXXFLAGS: -I${SRCDIR}/sdk/edge-impulse-sdk/CMSIS/DSP/Include
#cgo CXXFLAGS: -I${SRCDIR}/sdk/model-parameters
#cgo CXXFLAGS: -I${SRCDIR}/sdk/tflite-model
#cgo LDFLAGS: -L${SRCDIR}/sdk/build -ledgeimpulse -lm -lstdc++ -ldl -lpthread

#include "shim.h"
*/
import "C"

import (
	"context"
	"sync"
	"time"

	"github.com/mpromonet/edge-inference/internal/classifier"
	"github.com/mpromonet/edge-inference/internal/signal"
	"github.com/mpromonet/edge-inference/pkg/logger"
)

// EngineName is the registry name of this engine.
const EngineName = "eisdk"

func init() {
	classifier.Register(EngineName, func(opts classifier.Options) (classifier.Engine, error) {
		return New(opts), nil
	})
}

// Engine calls the statically linked classifier. The SDK keeps its tensor
// arena in static storage, so calls are serialised.
type Engine struct {
	mu sync.Mutex
}

// New returns the engine. The model is compiled into the library, so only
// informational options are used.
func New(opts classifier.Options) *Engine {
	log := logger.Named("eisdk")
	if opts.ModelPath != "" {
		log.Warn(context.Background(), "model_path is ignored, the model is linked into the binary",
			logger.String("model_path", opts.ModelPath))
	}
	log.Info(context.Background(), "edge impulse engine ready",
		logger.Int("input_frame_size", int(C.ei_shim_input_frame_size())))
	return &Engine{}
}

// Classify implements classifier.Engine.
func (e *Engine) Classify(sig *signal.Signal, debug bool) (classifier.Status, *classifier.Result) {
	features, err := sig.ReadAll()
	if err != nil {
		return classifier.DspError, nil
	}
	if len(features) == 0 {
		return classifier.ShapesDontMatch, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var out C.ei_shim_result_t
	dbg := C.int(0)
	if debug {
		dbg = 1
	}
	res := C.ei_shim_run_classifier((*C.float)(&features[0]), C.size_t(len(features)), dbg, &out)
	if status := classifier.Status(res); status != classifier.OK {
		return status, nil
	}

	n := int(out.count)
	result := &classifier.Result{Classification: make([]classifier.Category, n)}
	for i := 0; i < n; i++ {
		result.Classification[i] = classifier.Category{
			Label: C.GoString(out.labels[i]),
			Value: float32(out.values[i]),
		}
	}
	result.AnomalyScore = float32(out.anomaly)
	result.Timing = classifier.Timing{
		DSP:            time.Duration(out.timing_dsp_ms) * time.Millisecond,
		Classification: time.Duration(out.timing_classification_ms) * time.Millisecond,
		Anomaly:        time.Duration(out.timing_anomaly_ms) * time.Millisecond,
	}
	return classifier.OK, result
}
