// Command libedgeinference builds the shared library loaded by host
// applications:
//
//	go build -buildmode=c-shared -o libedge_inference.so ./cmd/libedgeinference
//
// The library reads its configuration from EDGE_INFERENCE_* variables on the
// first call.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"github.com/mpromonet/edge-inference/internal/bridge"
	_ "github.com/mpromonet/edge-inference/internal/engine/tflite"
)

// run_inference returns the score of the first class for one 3-axis sample,
// or -1 on failure.
//
//export run_inference
func run_inference(x, y, z C.float) C.float {
	return C.float(bridge.RunInference(float32(x), float32(y), float32(z)))
}

// run_inference_checked stores the score in *score and returns 0, or returns
// the failure status and stores -1.
//
//export run_inference_checked
func run_inference_checked(x, y, z C.float, score *C.float) C.int32_t {
	s, status := bridge.RunInferenceChecked(float32(x), float32(y), float32(z))
	if score != nil {
		*score = C.float(s)
	}
	return C.int32_t(status)
}

//export edge_inference_shutdown
func edge_inference_shutdown() C.int32_t {
	if err := bridge.Shutdown(); err != nil {
		return -1
	}
	return 0
}

func main() {}
