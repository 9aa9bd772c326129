package resources

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// ConfigureLogger sets the global zerolog logger, writing to out, from
// LOG_LEVEL and LOG_FORMAT and returns ctx carrying it.
func ConfigureLogger(ctx context.Context, out io.Writer, name string, version string, env string) context.Context {
	level, err := zerolog.ParseLevel(viper.GetString(LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if viper.GetString(LogFormat) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("service", name).
		Str("version", version).
		Str("env", env).
		Logger()
	zerolog.DefaultContextLogger = &log.Logger

	return log.Logger.WithContext(ctx)
}
