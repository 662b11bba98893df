// Command edge-inference serves an exported classifier over HTTP, or runs a
// single sample with -once.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/mpromonet/edge-inference/internal/bridge"
	"github.com/mpromonet/edge-inference/internal/cli"
	"github.com/mpromonet/edge-inference/internal/config"
	_ "github.com/mpromonet/edge-inference/internal/engine/tflite"
	"github.com/mpromonet/edge-inference/internal/server"
	"github.com/mpromonet/edge-inference/pkg/logger"
	"github.com/mpromonet/edge-inference/pkg/metrics"
)

var (
	modelPath  = flag.String("model", "", "path to model file (overrides config)")
	labelPath  = flag.String("label", "", "path to label file (overrides config)")
	engineName = flag.String("engine", "", "classifier engine (overrides config)")
	once       = flag.String("once", "", "classify one \"x,y,z\" sample, print the score and exit")
)

func main() {
	flag.Parse()
	ctx := context.Background()
	log := logger.Named("main")

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "load config", logger.Error(err))
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Error(ctx, "log level", logger.Error(err))
		os.Exit(1)
	}

	var m *metrics.Manager
	if cfg.MetricsEnabled {
		m = metrics.NewManager()
	}
	adapter, err := bridge.NewAdapter(ctx, cfg, m)
	if err != nil {
		log.Error(ctx, "cannot create adapter", logger.Error(err))
		os.Exit(1)
	}
	bridge.Install(adapter)
	defer bridge.Shutdown()

	if *once != "" {
		code := cli.RunOnce(os.Stdout, adapter, *once)
		_ = bridge.Shutdown()
		os.Exit(code)
	}

	gin.SetMode(gin.ReleaseMode)
	r := server.New(adapter, server.Options{
		EngineName: cfg.Engine,
		StaticDir:  cfg.StaticDir,
		Metrics:    m,
	})
	log.Info(ctx, "listening", logger.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		log.Error(ctx, "server stopped", logger.Error(err))
	}
}

func applyFlags(cfg *config.Config) {
	if *modelPath != "" {
		cfg.ModelPath = *modelPath
	}
	if *labelPath != "" {
		cfg.LabelPath = *labelPath
	}
	if *engineName != "" {
		cfg.Engine = *engineName
	}
}
