// Package signal describes the input handed to a classifier engine: a single
// 3-axis Sample and a Signal view over a raw float32 buffer.
package signal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Axes is the number of values in one Sample.
const Axes = 3

// ErrOutOfRange is returned when a read falls outside the signal.
var ErrOutOfRange = errors.New("signal read out of range")

// Sample is one instant of a 3-axis sensor reading.
type Sample struct {
	X, Y, Z float32
}

// Features returns the sample laid out the way models expect it: x, y, z.
func (s Sample) Features() [Axes]float32 {
	return [Axes]float32{s.X, s.Y, s.Z}
}

// Signal is a read-only view over a numeric buffer. Engines pull data through
// GetData instead of receiving a copy.
type Signal struct {
	// Total is the number of values available through GetData.
	Total int

	get func(offset, length int, out []float32) error
}

// FromBuffer wraps buf without copying it. The caller must keep buf alive and
// unmodified for as long as the signal is in use.
func FromBuffer(buf []float32) *Signal {
	return &Signal{
		Total: len(buf),
		get: func(offset, length int, out []float32) error {
			copy(out[:length], buf[offset:offset+length])
			return nil
		},
	}
}

// GetData copies length values starting at offset into out.
func (s *Signal) GetData(offset, length int, out []float32) error {
	if offset < 0 || length < 0 || offset > s.Total || length > s.Total-offset {
		return fmt.Errorf("%w: offset %d length %d total %d", ErrOutOfRange, offset, length, s.Total)
	}
	if len(out) < length {
		return fmt.Errorf("%w: output holds %d, need %d", ErrOutOfRange, len(out), length)
	}
	return s.get(offset, length, out)
}

// ReadAll returns every value of the signal in a fresh slice.
func (s *Signal) ReadAll() ([]float32, error) {
	out := make([]float32, s.Total)
	if err := s.GetData(0, s.Total, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseSample parses "x,y,z".
func ParseSample(s string) (Sample, error) {
	parts := strings.Split(s, ",")
	if len(parts) != Axes {
		return Sample{}, fmt.Errorf("sample %q: want x,y,z", s)
	}
	var v [Axes]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Sample{}, fmt.Errorf("sample %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return Sample{X: v[0], Y: v[1], Z: v[2]}, nil
}
