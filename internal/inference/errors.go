package inference

import (
	"errors"
	"fmt"

	"github.com/mpromonet/edge-inference/internal/classifier"
)

var (
	// ErrEngine matches every EngineError.
	ErrEngine = errors.New("classifier engine error")
	// ErrEmptyResult is returned when the engine reports OK without any category.
	ErrEmptyResult = errors.New("classifier returned no categories")
)

// EngineError carries the non-OK status returned by the engine.
type EngineError struct {
	Status classifier.Status
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("error running classifier (%d): %s", int32(e.Status), e.Status)
}

// Is makes errors.Is(err, ErrEngine) true for any EngineError.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngine
}
