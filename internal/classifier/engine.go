// Package classifier defines the contract between the inference adapter and
// the external engines that actually run a model.
package classifier

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mpromonet/edge-inference/internal/signal"
)

// Engine runs a compiled model against a signal. It is the only capability the
// adapter needs from the outside world.
type Engine interface {
	Classify(sig *signal.Signal, debug bool) (Status, *Result)
}

// Options configures an engine when it is opened by name.
type Options struct {
	ModelPath  string
	LabelPath  string
	NumThreads int
	// Delegate selects a hardware delegate, "none" or "edgetpu".
	Delegate string
}

// Factory opens an engine.
type Factory func(opts Options) (Engine, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes an engine available under name. It panics when called twice
// with the same name or with a nil factory.
func Register(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if f == nil {
		panic("classifier: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("classifier: Register called twice for engine " + name)
	}
	factories[name] = f
}

// Open opens the engine registered under name.
func Open(name string, opts Options) (Engine, error) {
	factoriesMu.RLock()
	f, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %v)", ErrUnknownEngine, name, Engines())
	}
	return f(opts)
}

// Engines returns the sorted names of the registered engines.
func Engines() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
