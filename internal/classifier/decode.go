/* ---------------------------------------------------------------------------
** This software is in the public domain, furnished "as is", without technical
** support, and with no warranty, express or implied, as to its usefulness for
** any purpose.
** -------------------------------------------------------------------------*/

package classifier

import "math"

// ArgMax returns the index and value of the largest element of f, or (-1, 0)
// when f is empty.
func ArgMax(f []float32) (int, float32) {
	if len(f) == 0 {
		return -1, 0
	}
	r, m := 0, f[0]
	for i, v := range f {
		if v > m {
			m = v
			r = i
		}
	}
	return r, m
}

// DequantizeUint8 maps quantized uint8 outputs back to real values.
func DequantizeUint8(q []uint8, scale float64, zeroPoint int) []float32 {
	out := make([]float32, len(q))
	for i, v := range q {
		out[i] = float32(scale * float64(int(v)-zeroPoint))
	}
	return out
}

// DequantizeInt8 maps quantized int8 outputs back to real values.
func DequantizeInt8(q []int8, scale float64, zeroPoint int) []float32 {
	out := make([]float32, len(q))
	for i, v := range q {
		out[i] = float32(scale * float64(int(v)-zeroPoint))
	}
	return out
}

// QuantizeUint8 is the inverse of DequantizeUint8, saturating at the type bounds.
func QuantizeUint8(f []float32, scale float64, zeroPoint int) []uint8 {
	out := make([]uint8, len(f))
	for i, v := range f {
		out[i] = uint8(clamp(quantize(v, scale, zeroPoint), 0, math.MaxUint8))
	}
	return out
}

// QuantizeInt8 is the inverse of DequantizeInt8, saturating at the type bounds.
func QuantizeInt8(f []float32, scale float64, zeroPoint int) []int8 {
	out := make([]int8, len(f))
	for i, v := range f {
		out[i] = int8(clamp(quantize(v, scale, zeroPoint), math.MinInt8, math.MaxInt8))
	}
	return out
}

func quantize(v float32, scale float64, zeroPoint int) float64 {
	if scale == 0 {
		return float64(zeroPoint)
	}
	return math.Round(float64(v)/scale) + float64(zeroPoint)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
