//go:build edgetpu

package tflite

import (
	"context"

	"github.com/mattn/go-tflite"
	"github.com/mattn/go-tflite/delegates/edgetpu"

	"github.com/mpromonet/edge-inference/pkg/logger"
)

func addDelegate(ctx context.Context, log logger.Logger, options *tflite.InterpreterOptions) {
	devices, err := edgetpu.DeviceList()
	if err != nil {
		log.Warn(ctx, "could not get EdgeTPU devices", logger.Error(err))
	}
	if len(devices) == 0 {
		log.Warn(ctx, "no edge TPU devices found, running on CPU")
		return
	}
	options.AddDelegate(edgetpu.New(devices[0]))
	log.Info(ctx, "edge TPU delegate attached", logger.Any("device", devices[0]))
}
