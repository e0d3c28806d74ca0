// Package logging configures the process-wide zerolog logger from
// LogConfig. Everything else in the program logs through the zerolog
// global so Init must run before the first log line.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"color-crack/internal/config"
)

var sink io.Writer = os.Stdout

// Init installs the global logger. When cfg.File is set, output goes to
// a size-capped file instead of stdout; the file is truncated and
// restarted once it exceeds cfg.MaxMB.
func Init(cfg config.LogConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	out := io.Writer(os.Stdout)
	if cfg.File != "" {
		capped, err := newCappedFileWriter(cfg.File, int64(cfg.MaxMB)<<20)
		if err != nil {
			return err
		}
		out = capped
	}
	sink = out

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	return nil
}

// Writer returns the raw log destination, for components such as the
// HTTP request logger that build their own zerolog instances.
func Writer() io.Writer { return sink }
