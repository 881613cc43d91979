// Package logger owns the process-wide zerolog logger.
//
// The serve command calls Init once; code that cannot receive a logger by
// injection reads it back with Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger built by New and Init.
type Options struct {
	Level  string    // trace, debug, info, warn or error; anything else means info
	Pretty bool      // console output for local runs, JSON otherwise
	Output io.Writer // os.Stdout when nil

	Service string
	Env     string
}

var (
	mu     sync.Mutex
	global *zerolog.Logger
)

// New returns a logger for opts. It does not change the global one.
func New(opts Options) zerolog.Logger {
	w := opts.Output
	if w == nil {
		w = os.Stdout
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	fields := map[string]any{}
	if opts.Service != "" {
		fields["service"] = opts.Service
	}
	if opts.Env != "" {
		fields["env"] = opts.Env
	}

	return zerolog.New(w).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Fields(fields).
		Logger()
}

// Init installs the global logger. Later calls return the installed one
// unchanged until Reset.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		return *global
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(parseLevel(opts.Level))

	l := New(opts)
	global = &l
	return l
}

// Get returns the global logger and panics when Init was never called.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		panic("logger: Get called before Init")
	}
	return *global
}

// Reset forgets the global logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	global = nil
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	switch lvl, err := zerolog.ParseLevel(s); {
	case err != nil, s == "", lvl > zerolog.ErrorLevel:
		return zerolog.InfoLevel
	default:
		return lvl
	}
}
