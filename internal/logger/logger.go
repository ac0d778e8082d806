package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the service logger. Production gets machine-readable JSON
// at info level; everything else gets the console writer with debug on.
func New(environment string) zerolog.Logger {
	if environment == "production" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	}
	return zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
}
