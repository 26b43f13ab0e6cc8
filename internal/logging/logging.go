// Package logging builds the logrus logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"
)

// Config captures the logging options of the configuration file.
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig logs info and above as text.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "text"}
}

// Validate checks level and format names.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.By(func(value interface{}) error {
			if _, err := parseLevel(value.(string)); err != nil {
				return validation.NewError("logging.level_invalid", err.Error())
			}

			return nil
		})),
		validation.Field(&c.Format, validation.In("text", "json", "TEXT", "JSON")),
	)
}

// New returns a logger writing to out.
func New(cfg Config, out io.Writer) (*logrus.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{ //nolint:exhaustruct
			DisableTimestamp: true,
			DisableQuote:     true,
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{}) //nolint:exhaustruct
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func parseLevel(level string) (logrus.Level, error) {
	level = strings.TrimSpace(level)
	if len(level) == 0 {
		return logrus.InfoLevel, nil
	}

	return logrus.ParseLevel(level)
}
