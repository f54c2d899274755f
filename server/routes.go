package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/adapters/dag"
	apperrors "github.com/kbukum/adapters/errors"
	"github.com/kbukum/adapters/logger"
	"github.com/kbukum/adapters/observability"
	"github.com/kbukum/adapters/server/endpoint"
	"github.com/kbukum/adapters/server/middleware"
)

// ValidateRequest is the body of POST /nodes/:name/validate.
type ValidateRequest struct {
	Record dag.Record `json:"record"`
	Params dag.Params `json:"params"`
}

// GraphResponse is the body of GET /graph.
type GraphResponse struct {
	Nodes []dag.NodeInfo `json:"nodes"`
	Edges []dag.Edge     `json:"edges"`
}

// RouteOptions configures RegisterRoutes.
type RouteOptions struct {
	ServiceName string
	// Metrics enables request metrics in the tracing middleware. Optional.
	Metrics *observability.Metrics
	// Checkers are reported by /health and /ready next to the registry.
	Checkers []observability.HealthChecker
}

// RegisterRoutes mounts the probe endpoints and the node API over registry.
func (s *Server) RegisterRoutes(registry *dag.Registry, opts RouteOptions) {
	if opts.ServiceName == "" {
		opts.ServiceName = "adapters"
	}
	checkers := append([]observability.HealthChecker{RegistryHealth{Registry: registry}}, opts.Checkers...)

	s.engine.Use(middleware.Tracing(opts.ServiceName, opts.Metrics))

	s.engine.GET("/health", endpoint.Health(opts.ServiceName, checkers...))
	s.engine.GET("/ready", endpoint.Readiness(opts.ServiceName, checkers...))
	s.engine.GET("/alive", endpoint.Liveness(opts.ServiceName))
	s.engine.GET("/info", endpoint.Info(opts.ServiceName))
	s.engine.GET("/metrics", endpoint.Metrics(registry.Len))

	h := &nodeHandler{registry: registry, log: s.log.WithComponent("nodes")}
	s.engine.GET("/graph", h.graph)
	s.engine.GET("/nodes", h.list)
	s.engine.GET("/nodes/:name", h.get)
	s.engine.POST("/nodes/:name/validate", h.validate)
}

type nodeHandler struct {
	registry *dag.Registry
	log      *logger.Logger
}

func (h *nodeHandler) list(c *gin.Context) {
	infos := make([]dag.NodeInfo, 0, h.registry.Len())
	for _, name := range h.registry.List() {
		if n, ok := h.registry.Get(name); ok {
			infos = append(infos, dag.Describe(n))
		}
	}
	RespondOK(c, infos)
}

func (h *nodeHandler) get(c *gin.Context) {
	n, err := h.registry.Lookup(c.Param("name"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, dag.Describe(n))
}

func (h *nodeHandler) graph(c *gin.Context) {
	resp := GraphResponse{Nodes: []dag.NodeInfo{}, Edges: h.registry.Edges()}
	for _, name := range h.registry.List() {
		if n, ok := h.registry.Get(name); ok {
			resp.Nodes = append(resp.Nodes, dag.Describe(n))
		}
	}
	if resp.Edges == nil {
		resp.Edges = []dag.Edge{}
	}
	RespondOK(c, resp)
}

func (h *nodeHandler) validate(c *gin.Context) {
	n, err := h.registry.Lookup(c.Param("name"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondWithError(c, apperrors.New(apperrors.ErrCodeInvalidInput,
				"Request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes.",
				http.StatusRequestEntityTooLarge))
			return
		}
		RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}

	out, err := n.Validate(c.Request.Context(), req.Record, req.Params)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Debug("Validation rejected record", map[string]interface{}{
			logger.FieldNode:  n.Name(),
			logger.FieldError: err.Error(),
		})
		_ = c.Error(err)
		RespondWithError(c, asValidationError(err))
		return
	}
	RespondOK(c, out)
}

// asValidationError keeps AppErrors as they are. Plain validator errors are
// rejections of the record, so they map to INVALID_INPUT instead of a 500.
func asValidationError(err error) error {
	if apperrors.IsAppError(err) || errors.Is(err, context.Canceled) || errors.Is(err, dag.ErrNotImplemented) {
		return err
	}
	return apperrors.Validation(err.Error()).WithCause(err)
}

// RegistryHealth reports the node registry as a health component. An empty
// registry is degraded: the service runs but can validate nothing.
type RegistryHealth struct {
	Registry *dag.Registry
}

// CheckHealth implements observability.HealthChecker.
func (r RegistryHealth) CheckHealth(context.Context) observability.Health {
	count := r.Registry.Len()
	h := observability.Health{
		Name:    "registry",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"nodes": strconv.Itoa(count)},
	}
	if count == 0 {
		h.Status = observability.HealthStatusDegraded
		h.Message = "no nodes compiled"
	}
	return h
}
