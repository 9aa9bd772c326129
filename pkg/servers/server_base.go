package servers

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"contributions-viewer/pkg/resources"
)

// baseServer owns the application resources; it blocks until stopped and
// then closes them.
type baseServer struct {
	name         string
	closeChannel chan struct{}
	closeOnce    sync.Once
	closables    []resources.Closable
}

func BuildBaseServer(closables ...resources.Closable) (string, Server) {
	return "base-server", NewBaseServer(closables...)
}

func NewBaseServer(closables ...resources.Closable) Server {
	return &baseServer{
		name:         "base-server",
		closeChannel: make(chan struct{}),
		closables:    closables,
	}
}

func (server *baseServer) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "startup").Str("component", server.name).Msg("starting up")

	<-server.closeChannel

	return nil
}

func (server *baseServer) Stop(ctx context.Context) error {
	server.closeOnce.Do(func() {
		log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopping")
		defer log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopped")

		for _, closable := range server.closables {
			closable.Close()
		}

		close(server.closeChannel)
	})

	return nil
}
