// Package logging sets up the zerolog logger used across the generator.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// ParseLevel converts a string log level to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup builds a logger writing human-readable output to console and, when
// graylogAddress is set, raw JSON records to Graylog over GELF.
// The returned closer releases the Graylog connection.
func Setup(console io.Writer, level string, graylogAddress string) (zerolog.Logger, io.Closer, error) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
		},
	}

	var closer io.Closer = nopCloser{}
	if graylogAddress != "" {
		gw, err := gelf.NewWriter(graylogAddress)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to create graylog writer: %w", err)
		}
		writers = append(writers, gw)
		closer = gw
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(level)).
		With().Timestamp().Logger()

	logger.Debug().Str("loglevel", logger.GetLevel().String()).Msg("Logging set up")
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
