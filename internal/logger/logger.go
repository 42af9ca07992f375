package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// output is the writer behind every logger derived from L.
type output struct {
	mu sync.RWMutex
	w  io.Writer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.w.Write(p)
}

func (o *output) set(w io.Writer) {
	o.mu.Lock()
	o.w = w
	o.mu.Unlock()
}

var (
	levelVar = new(slog.LevelVar)
	out      = &output{w: os.Stdout}
)

var L = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: levelVar}))

// SetLevel configures the global log level (debug, info, warn, error).
func SetLevel(lvl string) {
	switch strings.ToLower(lvl) {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
}

// SetOutput redirects L and every logger derived from it, including
// Component loggers created earlier.
func SetOutput(w io.Writer) {
	out.set(w)
}

// Component returns L tagged with the given component name.
func Component(name string) *slog.Logger {
	return L.With("component", name)
}
