package inspector

import (
	"os"

	"github.com/rs/zerolog"
)

// newLogger builds the diagnostic logger. Verbosity 0 shows warnings only,
// 1 adds per-root progress, 2 adds per-file and per-entry decisions.
func newLogger(verbosity int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbosity >= 2:
		level = zerolog.DebugLevel
	case verbosity == 1:
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true, PartsExclude: []string{"time"}}
	return zerolog.New(writer).Level(level)
}
