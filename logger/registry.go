package logger

import (
	"sync"
)

// Component names used by the pipeline stages.
const (
	ComponentSource    = "source"
	ComponentDispatch  = "dispatch"
	ComponentSink      = "sink"
	ComponentEngine    = "engine"
	ComponentTelemetry = "telemetry"
	ComponentLifecycle = "lifecycle"
)

// registry is the global named-logger registry.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults registers a set of named loggers from the global config.
// Without arguments it seeds the pipeline component names.
func RegisterDefaults(names ...string) {
	if len(names) == 0 {
		names = []string{ComponentSource, ComponentDispatch, ComponentSink, ComponentEngine, ComponentTelemetry}
	}
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}

// Reset drops every registered logger. Loggers created afterwards via Get
// derive from the current global logger.
func Reset() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers = make(map[string]*Logger)
}
