// Package cli holds the command-line modes of edge-inference that do not need
// a running server.
package cli

import (
	"fmt"
	"io"

	"github.com/mpromonet/edge-inference/internal/inference"
	"github.com/mpromonet/edge-inference/internal/signal"
)

// Exit codes of RunOnce.
const (
	ExitOK         = 0
	ExitSentinel   = 1
	ExitBadRequest = 2
)

// RunOnce classifies one "x,y,z" sample, prints the score to w and returns the
// process exit code: ExitSentinel when the adapter reported failure.
func RunOnce(w io.Writer, a *inference.Adapter, sample string) int {
	s, err := signal.ParseSample(sample)
	if err != nil {
		fmt.Fprintln(w, err)
		return ExitBadRequest
	}
	score := a.Run(s.X, s.Y, s.Z)
	fmt.Fprintf(w, "%g\n", score)
	if score < 0 {
		return ExitSentinel
	}
	return ExitOK
}
