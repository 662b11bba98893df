//go:build !edgetpu

package tflite

import (
	"context"

	"github.com/mattn/go-tflite"

	"github.com/mpromonet/edge-inference/pkg/logger"
)

func addDelegate(ctx context.Context, log logger.Logger, _ *tflite.InterpreterOptions) {
	log.Warn(ctx, "edgetpu delegate requested but binary built without the edgetpu tag")
}
