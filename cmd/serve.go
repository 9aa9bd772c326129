package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"contributions-viewer/core"
	"contributions-viewer/pkg/resources"
	"contributions-viewer/pkg/servers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the contributions and serve the http api",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "http listen host (HTTP_HOST)")
	serveCmd.Flags().String("port", "", "http listen port (HTTP_PORT)")
	_ = viper.BindPFlag(resources.HttpHost, serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag(resources.HttpPort, serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	env := viper.GetString(resources.AppEnv)
	timeout := viper.GetDuration(resources.ShutdownTimeout)

	// 1. Logger
	ctx := resources.ConfigureLogger(cmd.Context(), os.Stdout, name, version, env)
	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	// 2. Telemetry (traces/metrics/logs), zerolog bridged into otel logs
	stopFn, err := resources.Observe(ctx, name, version, env)
	if err != nil {
		return fmt.Errorf("unable to setup otel telemetry: %w", err)
	}
	defer stopFn(ctx, timeout)

	if viper.GetBool(resources.TelemetryEnabled) {
		log.Logger = log.Logger.Hook(resources.NewZerologHook(name, version))
		ctx = log.Logger.WithContext(ctx)
	}

	// 3. Contributions, loaded once before anything is served
	store, err := loadStore(ctx)
	if err != nil {
		startupLogger.Error().Err(err).Msg("unable to load contributions")
		return fmt.Errorf("unable to load contributions: %w", err)
	}

	startupLogger.Info().Int("records", store.Len()).Msg("contributions loaded")

	// 4. Wiring
	engine := core.NewEngine(store)
	handlers := core.NewHandlers(engine)

	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.Default()
	restHandler.Use(resources.TracerMiddleware(name))
	restHandler.Use(resources.MeterMiddleware(name))
	restHandler.Use(resources.RequestIDMiddleware())

	restHandler.GET("/", handlers.GetRoot)
	restHandler.GET("/contributions", handlers.GetContributions)
	restHandler.GET("/contributions/", handlers.GetContributions)
	restHandler.GET("/healthz", handlers.GetHealth)

	metricsHandler, err := resources.NewMetricsHandler(store.Len)
	if err != nil {
		return fmt.Errorf("unable to register prometheus collectors: %w", err)
	}

	debugHandler := http.NewServeMux()
	debugHandler.Handle("/metrics", metricsHandler)
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 5. Servers lifecycle; the rest server drops the store once it has drained
	app := servers.NewApplication(name, version)

	app.Attach(servers.BuildBaseServer())

	debugServer := servers.NewServer(viper.GetString(resources.DebugHost), viper.GetString(resources.DebugPort), debugHandler)
	app.Attach(servers.BuildHttpServer("debug-server", debugServer, timeout))

	restServer := servers.NewServer(viper.GetString(resources.HttpHost), viper.GetString(resources.HttpPort), restHandler)
	app.Attach(servers.BuildHttpServer("rest-server", restServer, timeout, store))

	startupLogger.Info().Msg("application running")

	// 6. Blocks until SIGINT/SIGTERM/SIGQUIT or a server fails
	err = app.Run()
	if err != nil {
		shutdownLogger.Error().Err(err).Msg("runtime error")
		return err
	}

	return nil
}

func loadStore(ctx context.Context) (*core.Store, error) {
	switch viper.GetString(resources.SourceKind) {
	case resources.SourceKindPostgres:
		pool, err := resources.CreateDatabaseConnectionPool(ctx)
		if err != nil {
			return nil, err
		}
		defer pool.Close()

		return core.LoadStore(ctx, core.NewPostgresSource(pool))
	default:
		return core.LoadStore(ctx, core.NewFileSource(viper.GetString(resources.DataFile)))
	}
}
