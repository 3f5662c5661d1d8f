// Package settings loads process-wide build settings: units, default
// geometric tolerances and logging. Values come from an optional
// airframe.yaml in the working directory, overridden by AIRFRAME_-prefixed
// environment variables.
package settings

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds the resolved configuration.
type Settings struct {
	Units            string  // "mm" or "in"
	SewTolerance     float64 // default sewing tolerance
	DiscardTolerance float64 // default distance-discard tolerance
	LogLevel         string  // debug, info, warn, error
	LogFormat        string  // text or json
}

// Default returns the stock settings without consulting any source.
func Default() *Settings {
	return &Settings{
		Units:            "mm",
		SewTolerance:     1e-7,
		DiscardTolerance: 1e-7,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load resolves settings from airframe.yaml (if present) and the
// environment. A missing config file is not an error.
func Load() (*Settings, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("units", d.Units)
	v.SetDefault("sew_tolerance", d.SewTolerance)
	v.SetDefault("discard_tolerance", d.DiscardTolerance)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	v.SetConfigName("airframe")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("AIRFRAME")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Settings{
		Units:            v.GetString("units"),
		SewTolerance:     v.GetFloat64("sew_tolerance"),
		DiscardTolerance: v.GetFloat64("discard_tolerance"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
	}, nil
}

// InitLogging installs the default slog handler per the settings.
func (s *Settings) InitLogging(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: s.slogLevel()}
	var handler slog.Handler
	if strings.EqualFold(s.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func (s *Settings) slogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
