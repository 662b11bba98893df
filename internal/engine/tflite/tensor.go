/* ---------------------------------------------------------------------------
** This software is in the public domain, furnished "as is", without technical
** support, and with no warranty, express or implied, as to its usefulness for
** any purpose.
** -------------------------------------------------------------------------*/

package tflite

import (
	"github.com/mattn/go-tflite"

	"github.com/mpromonet/edge-inference/internal/classifier"
)

// fillInput copies features into the input tensor, quantizing for integer models.
func fillInput(input *tflite.Tensor, features []float32) classifier.Status {
	q := input.QuantizationParams()
	switch input.Type() {
	case tflite.Float32:
		if err := input.SetFloat32s(features); err != nil {
			return classifier.ShapesDontMatch
		}
	case tflite.UInt8:
		if err := input.SetUint8s(classifier.QuantizeUint8(features, q.Scale, q.ZeroPoint)); err != nil {
			return classifier.ShapesDontMatch
		}
	case tflite.Int8:
		if err := input.SetInt8s(classifier.QuantizeInt8(features, q.Scale, q.ZeroPoint)); err != nil {
			return classifier.ShapesDontMatch
		}
	default:
		return classifier.UnsupportedInferencingEngine
	}
	return classifier.OK
}

// extractOutput returns the output scores as float32, dequantizing if needed.
func extractOutput(output *tflite.Tensor) ([]float32, classifier.Status) {
	q := output.QuantizationParams()
	switch output.Type() {
	case tflite.Float32:
		f := output.Float32s()
		loc := make([]float32, len(f))
		copy(loc, f)
		return loc, classifier.OK
	case tflite.UInt8:
		return classifier.DequantizeUint8(output.UInt8s(), q.Scale, q.ZeroPoint), classifier.OK
	case tflite.Int8:
		return classifier.DequantizeInt8(output.Int8s(), q.Scale, q.ZeroPoint), classifier.OK
	}
	return nil, classifier.UnsupportedInferencingEngine
}
