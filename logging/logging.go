package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global logger.
// Debug mode lowers the level to debug and adds caller information.
func SetupLogger(debug bool) {
	SetupLoggerWithWriter(debug, zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

// SetupLoggerWithWriter is SetupLogger with an explicit output, used by tests.
func SetupLoggerWithWriter(debug bool, out io.Writer) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	if debug {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Bool("debug", debug).Msg("Logger initialized")
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// Must logs a fatal error and exits if err is not nil
func Must(err error, msg string) {
	if err != nil {
		log.Fatal().Err(err).Msg(msg)
	}
}
