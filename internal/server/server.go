// Package server exposes the inference adapter over HTTP for inspection and
// integration testing of exported models.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"github.com/mpromonet/edge-inference/internal/classifier"
	"github.com/mpromonet/edge-inference/internal/inference"
	"github.com/mpromonet/edge-inference/pkg/metrics"
)

// SampleRequest is the body of POST /runinference.
type SampleRequest struct {
	X *float32 `json:"x" binding:"required"`
	Y *float32 `json:"y" binding:"required"`
	Z *float32 `json:"z" binding:"required"`
}

// InferenceResponse is returned on success.
type InferenceResponse struct {
	Score          float32               `json:"score"`
	Label          string                `json:"label"`
	Top            classifier.Category   `json:"top"`
	Classification []classifier.Category `json:"classification"`
}

// ErrorResponse is returned on failure. Score carries the sentinel so that
// clients written against the native contract keep working.
type ErrorResponse struct {
	Error  string  `json:"error"`
	Status int32   `json:"status,omitempty"`
	Score  float32 `json:"score"`
}

// Options configures the router.
type Options struct {
	EngineName string
	StaticDir  string
	Metrics    *metrics.Manager
}

// New returns a gin engine serving the adapter.
func New(a *inference.Adapter, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if opts.StaticDir != "" {
		r.Use(static.Serve("/", static.LocalFile(opts.StaticDir, false)))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "engine": opts.EngineName})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.POST("/runinference", runInference(a))
	return r
}

func runInference(a *inference.Adapter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SampleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Score: inference.Sentinel})
			return
		}

		p, err := a.Infer(*req.X, *req.Y, *req.Z)
		if err != nil {
			resp := ErrorResponse{Error: err.Error(), Score: inference.Sentinel}
			var engineErr *inference.EngineError
			if errors.As(err, &engineErr) {
				resp.Status = int32(engineErr.Status)
			}
			c.JSON(http.StatusBadGateway, resp)
			return
		}

		top, _ := p.Result.Top()
		c.JSON(http.StatusOK, InferenceResponse{
			Score:          p.Score,
			Label:          p.Label,
			Top:            top,
			Classification: p.Result.Classification,
		})
	}
}
