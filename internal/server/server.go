package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"inspections/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

// Routes is implemented by each service's handler set.
type Routes interface {
	Routes(r *flow.Mux)
}

type Service struct {
	name   string
	logger *logrus.Logger
	config *types.Config

	mux     *flow.Mux
	handler http.Handler
	server  *http.Server
}

// New builds an HTTP service named name. Shared middleware is installed
// before any routes so it wraps every handler.
func New(
	name string,
	config *types.Config,
	logger *logrus.Logger,
	routes ...Routes,
) *Service {
	mux := flow.New()

	s := &Service{
		name:   name,
		logger: logger,
		config: config,
		mux:    mux,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux, routes)
	s.handler = s.CORS(mux)
	s.server.Handler = s.handler

	return s
}

func (s *Service) Name() string {
	return s.name
}

func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux, routes []Routes) {
	r.NotFound = http.HandlerFunc(s.handleNotFound)

	r.Use(s.RequestID)
	r.Use(s.Recover)
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	for _, rt := range routes {
		rt.Routes(r)
	}
}

func (s *Service) handleNotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]any{
		"error": "Not found",
		"path":  r.URL.Path,
	})
}
