package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/onflow/dispute-client/module/component"
	"github.com/onflow/dispute-client/module/irrecoverable"
)

// Server serves the prometheus metrics on /metrics and a liveness probe on /health.
type Server struct {
	*component.ComponentManager
	server *http.Server
	log    zerolog.Logger
	addr   *atomic.String
}

// NewServer creates a server listening on addr. A zero port picks a free one,
// see Addr.
func NewServer(log zerolog.Logger, addr string, gatherer prometheus.Gatherer) *Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	m := &Server{
		server: &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second},
		log:    log.With().Str("component", "metrics_server").Logger(),
		addr:   atomic.NewString(""),
	}
	m.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(m.serve).
		Build()
	return m
}

// Addr returns the address the server listens on, empty before it is ready.
func (m *Server) Addr() string {
	return m.addr.Load()
}

func (m *Server) serve(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	listener, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		ctx.Throw(err)
	}
	m.addr.Store(listener.Addr().String())
	m.log.Info().Str("address", m.Addr()).Msg("metrics server started")
	ready()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.server.Shutdown(shutdownCtx)
	}()

	err = m.server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		m.log.Debug().Msg("metrics server stopped")
		return
	}
	m.log.Err(err).Msg("metrics server failed")
}
