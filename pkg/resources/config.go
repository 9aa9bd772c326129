package resources

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SourceKindFile     = "file"
	SourceKindPostgres = "postgres"
)

// Configuration keys. Every key can be set from the environment using the
// same name.
const (
	AppEnv           = "APP_ENV"
	LogLevel         = "LOG_LEVEL"
	LogFormat        = "LOG_FORMAT"
	HttpHost         = "HTTP_HOST"
	HttpPort         = "HTTP_PORT"
	DebugHost        = "DEBUG_HOST"
	DebugPort        = "DEBUG_PORT"
	SourceKind       = "SOURCE_KIND"
	DataFile         = "DATA_FILE"
	DbUser           = "DB_USER"
	DbPassword       = "DB_PASSWORD"
	DbHost           = "DB_HOST"
	DbPort           = "DB_PORT"
	DbName           = "DB_NAME"
	TelemetryEnabled = "TELEMETRY_ENABLED"
	OtelEndpoint     = "OTEL_ENDPOINT"
	ShutdownTimeout  = "SHUTDOWN_TIMEOUT"
)

func SetDefaults(v *viper.Viper) {
	v.SetDefault(AppEnv, "local")
	v.SetDefault(LogLevel, "info")
	v.SetDefault(LogFormat, "json")
	v.SetDefault(HttpHost, "localhost")
	v.SetDefault(HttpPort, "8080")
	v.SetDefault(DebugHost, "localhost")
	v.SetDefault(DebugPort, "6060")
	v.SetDefault(SourceKind, SourceKindFile)
	v.SetDefault(DataFile, "seed_data/contributions.json")
	v.SetDefault(DbHost, "localhost")
	v.SetDefault(DbPort, "5432")
	v.SetDefault(TelemetryEnabled, true)
	v.SetDefault(OtelEndpoint, "localhost:4317")
	v.SetDefault(ShutdownTimeout, 15*time.Second)
}

// LoadConfig prepares the global viper instance: defaults, environment and,
// when file is not empty, a config file whose values override the defaults.
func LoadConfig(file string) error {
	v := viper.GetViper()

	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)

		err := v.ReadInConfig()
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return ValidateConfig(v)
}

func ValidateConfig(v *viper.Viper) error {
	var errs []error

	switch kind := v.GetString(SourceKind); kind {
	case SourceKindFile:
		if v.GetString(DataFile) == "" {
			errs = append(errs, fmt.Errorf("%s is required when %s is %s", DataFile, SourceKind, kind))
		}
	case SourceKindPostgres:
		if v.GetString(DbName) == "" {
			errs = append(errs, fmt.Errorf("%s is required when %s is %s", DbName, SourceKind, kind))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be %s or %s, got %q", SourceKind, SourceKindFile, SourceKindPostgres, kind))
	}

	switch format := v.GetString(LogFormat); format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("%s must be json or console, got %q", LogFormat, format))
	}

	if v.GetDuration(ShutdownTimeout) <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", ShutdownTimeout))
	}

	return errors.Join(errs...)
}
