// Package log holds the process-wide structured logger.
//
// The bridge normally talks to its client over stdout (DAP or MCP
// framing), so all logging goes to stderr and/or a rotating file and
// never to stdout.
package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
)

// Options controls logger initialization.
type Options struct {
	Level   string   // trace, debug, info, warn, error (default info)
	Writers []string // "console", "file"
	File    string   // log file path when "file" writer is enabled
}

// Init configures the global logger. Safe to call once at startup.
func Init(opts Options) error {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	for _, w := range opts.Writers {
		switch w {
		case "console":
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
		case "file":
			if opts.File != "" {
				writers = append(writers, &lumberjack.Logger{
					Filename:   opts.File,
					MaxSize:    20, // megabytes
					MaxBackups: 3,
					MaxAge:     14, // days
				})
			}
		}
	}
	if len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	mu.Lock()
	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	mu.Unlock()
	return nil
}

// L returns the global logger.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &logger
}
