package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger = zerolog.Nop()
	mu     sync.RWMutex
)

// Init configures the process logger. level is parsed with zerolog and
// falls back to info; human selects the console writer over JSON.
func Init(level string, human bool) {
	InitWithWriter(level, human, os.Stderr)
}

// InitWithWriter is Init with an explicit destination
func InitWithWriter(level string, human bool, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if human {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Get returns the process logger. It discards everything until Init runs.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Component returns the process logger tagged with a component name
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}
