// Package config defines the bridge configuration and how it is loaded.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Engine names the registered classifier engine, e.g. "tflite" or "eisdk".
	Engine string `koanf:"engine"`

	// ModelPath and LabelPath locate the exported model and its class labels.
	ModelPath string `koanf:"model_path"`
	LabelPath string `koanf:"label_path"`

	// NumThreads is passed to the interpreter.
	NumThreads int `koanf:"num_threads"`

	// Delegate selects a hardware delegate: none or edgetpu.
	Delegate string `koanf:"delegate"`

	// Debug asks the engine to print its intermediate features.
	Debug bool `koanf:"debug"`

	// Addr configures the HTTP listen address of the inspection service.
	Addr string `koanf:"addr"`

	// StaticDir, when set, is served at / by the inspection service.
	StaticDir string `koanf:"static_dir"`

	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Engine:         "tflite",
		ModelPath:      "models/model.tflite",
		LabelPath:      "models/labels.txt",
		NumThreads:     4,
		Delegate:       "none",
		Addr:           ":8080",
		MetricsEnabled: true,
	}
}
