package classifier

import "fmt"

// Status is the code an engine returns from Classify. Values follow the
// embedded SDK's EI_IMPULSE_ERROR enumeration so native engines can pass them
// through unchanged.
type Status int32

const (
	OK                           Status = 0
	ShapesDontMatch              Status = -1
	Canceled                     Status = -2
	TfliteError                  Status = -3
	DspError                     Status = -5
	TfliteArenaAllocFailed       Status = -6
	CubeAIError                  Status = -7
	AllocFailed                  Status = -8
	OnlySupportedForImages       Status = -9
	UnsupportedInferencingEngine Status = -10
	OutOfMemory                  Status = -11
	InputTensorWasNull           Status = -13
	OutputTensorWasNull          Status = -14
)

var statusNames = map[Status]string{
	OK:                           "ok",
	ShapesDontMatch:              "shapes don't match",
	Canceled:                     "canceled",
	TfliteError:                  "tflite error",
	DspError:                     "dsp error",
	TfliteArenaAllocFailed:       "tflite arena alloc failed",
	CubeAIError:                  "cubeai error",
	AllocFailed:                  "alloc failed",
	OnlySupportedForImages:       "only supported for images",
	UnsupportedInferencingEngine: "unsupported inferencing engine",
	OutOfMemory:                  "out of memory",
	InputTensorWasNull:           "input tensor was null",
	OutputTensorWasNull:          "output tensor was null",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int32(s))
}
