// Package logging builds the zerolog logger shared by the CLI and the
// HTTP API. Components receive it by injection rather than through a
// package-level global.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "lingocart"

// New builds the service logger: human-readable console output in the
// local environment, JSON elsewhere.
func New(environment, level string) (zerolog.Logger, error) {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse LOG_LEVEL=%q: %w", level, err)
	}

	logger := zerolog.New(writerFor(environment)).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return logger, nil
}

func writerFor(environment string) io.Writer {
	if strings.EqualFold(strings.TrimSpace(environment), "local") {
		return zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	return os.Stdout
}
