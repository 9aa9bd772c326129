package servers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"contributions-viewer/pkg/resources"
)

type httpServer struct {
	name        string
	internal    *http.Server
	stopTimeout time.Duration
	listen      func() (net.Listener, error)
	closables   []resources.Closable
}

// BuildHttpServer attaches closables to the server: they are closed once the
// server has drained, never while a request it accepted is still running.
func BuildHttpServer(name string, server *http.Server, stopTimeout time.Duration, closables ...resources.Closable) (string, Server) {
	return name, NewHttpServer(name, server, stopTimeout, closables...)
}

func NewHttpServer(name string, server *http.Server, stopTimeout time.Duration, closables ...resources.Closable) Server {
	return &httpServer{
		name:        name,
		internal:    server,
		stopTimeout: stopTimeout,
		closables:   closables,
		listen: func() (net.Listener, error) {
			return net.Listen("tcp", server.Addr)
		},
	}
}

func NewServer(host string, port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (server *httpServer) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "startup").Str("component", server.name).Str("addr", server.internal.Addr).Msg("starting up")

	listener, err := server.listen()
	if err != nil {
		log.Ctx(ctx).Error().Str("stage", "startup").Str("component", server.name).Err(err).Msg("failed to listen")
		return ErrServerFailedToStart(server.name, err)
	}

	err = server.internal.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Ctx(ctx).Error().Str("stage", "startup").Str("component", server.name).Err(err).Msg("failed to serve")
		return ErrServerFailedToStart(server.name, err)
	}

	return nil
}

// Stop drains in-flight requests within stopTimeout, independent of the
// caller's deadline, then closes the server's closables.
func (server *httpServer) Stop(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopping")
	defer log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopped")

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), server.stopTimeout)
	defer cancel()

	err := server.internal.Shutdown(ctx)

	for _, closable := range server.closables {
		closable.Close()
	}

	if err != nil {
		log.Ctx(ctx).Error().Str("stage", "shut down").Str("component", server.name).Err(err).Msg("failed to stop")
		return ErrServerFailedToStop(server.name, err)
	}

	return nil
}
