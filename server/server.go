package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/adapters/logger"
	"github.com/kbukum/adapters/server/middleware"
)

// Server is the HTTP front of the adapters binary. Gin serves the API from
// a ServeMux, which also takes plain handlers such as /metrics, and the
// middleware stack wraps the mux.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	handler    http.Handler
	config     Config
	log        *logger.Logger
}

// New builds a Server for cfg, which should already have defaults applied.
// Gin runs in debug mode only when log is at debug level or below. A Gin
// test mode set by the caller is left alone.
func New(cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(ginMode(log))
	}

	s := &Server{
		engine: gin.New(),
		mux:    http.NewServeMux(),
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.mux.Handle("/", s.engine)
	s.handler = middleware.Chain(s.middlewares()...)(s.mux)
	s.httpServer = newHTTPServer(cfg, s.handler)
	return s
}

func ginMode(log *logger.Logger) string {
	if log.GetLogger().GetLevel() <= zerolog.DebugLevel {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// middlewares is the handler-level stack, outermost first. Recovery wraps
// everything so a panic in any later layer still gets a 500.
func (s *Server) middlewares() []middleware.Middleware {
	stack := []middleware.Middleware{
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.config.CORS),
	}
	if s.config.RateLimit > 0 {
		stack = append(stack, middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: s.config.RateLimit}))
	}
	if s.config.MaxBodySize != "" {
		stack = append(stack, middleware.BodySizeLimit(s.config.MaxBodySize))
	}
	return append(stack, middleware.RequestLogger(s.log))
}

// newHTTPServer serves handler over HTTP/1.1 and cleartext HTTP/2.
func newHTTPServer(cfg Config, handler http.Handler) *http.Server {
	seconds := func(n int) time.Duration { return time.Duration(n) * time.Second }
	return &http.Server{
		Addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler: h2c.NewHandler(handler, &http2.Server{
			MaxConcurrentStreams: 250,
			IdleTimeout:          seconds(cfg.IdleTimeout),
		}),
		ReadTimeout:       seconds(cfg.ReadTimeout),
		ReadHeaderTimeout: seconds(cfg.ReadTimeout),
		WriteTimeout:      seconds(cfg.WriteTimeout),
		IdleTimeout:       seconds(cfg.IdleTimeout),
	}
}

// Name identifies the server as a lifecycle component.
func (s *Server) Name() string {
	return "http-server"
}

// Engine returns the Gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the fully wrapped handler. Tests drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Handle mounts an http.Handler at the given pattern next to the Gin engine.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", map[string]interface{}{
		"pattern": pattern,
	})
}

// Start binds the listen address and serves in the background. Bind
// errors are returned; serve errors after that are logged.
func (s *Server) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.httpServer.Addr, err)
	}
	go s.serve(ln)

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": ln.Addr().String(),
	})
	return nil
}

func (s *Server) serve(ln net.Listener) {
	err := s.httpServer.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("HTTP server stopped unexpectedly", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
	}
}

// Stop drains in-flight requests until ctx is done. Without a deadline on
// ctx it waits at most defaultDrain.
func (s *Server) Stop(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultDrain)
		defer cancel()
	}

	s.log.Info("Draining HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

const defaultDrain = 5 * time.Second

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
