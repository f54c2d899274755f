package server

import (
	"cmp"
	"path"
	"slices"
	"strings"
)

// RouteInfo describes one registered route. System routes are the probes
// and diagnostics next to the node API.
type RouteInfo struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Handler string `json:"handler"`
	System  bool   `json:"system"`
}

var systemPaths = []string{"/health", "/ready", "/alive", "/info", "/metrics"}

var methodRank = map[string]int{"GET": 1, "POST": 2, "PUT": 3, "PATCH": 4, "DELETE": 5}

// Routes lists the Gin routes, node API first, each group ordered by path
// and then method. Call it after RegisterRoutes.
func (s *Server) Routes() []RouteInfo {
	var out []RouteInfo
	for _, r := range s.engine.Routes() {
		out = append(out, RouteInfo{
			Method:  r.Method,
			Path:    r.Path,
			Handler: formatHandlerName(r.Handler),
			System:  slices.Contains(systemPaths, r.Path),
		})
	}
	slices.SortFunc(out, func(a, b RouteInfo) int {
		if a.System != b.System {
			if a.System {
				return 1
			}
			return -1
		}
		return cmp.Or(
			strings.Compare(a.Path, b.Path),
			cmp.Compare(rank(a.Method), rank(b.Method)),
		)
	})
	return out
}

func rank(method string) int {
	if r, ok := methodRank[method]; ok {
		return r
	}
	return len(methodRank) + 1
}

// LogRoutes logs each route at debug level and a count at info.
func (s *Server) LogRoutes() {
	routes := s.Routes()
	for _, r := range routes {
		s.log.Debug("Route registered", map[string]interface{}{
			"method":  r.Method,
			"path":    r.Path,
			"handler": r.Handler,
		})
	}
	s.log.Info("Routes ready", map[string]interface{}{
		"count": len(routes),
		"addr":  s.Addr(),
	})
}

// formatHandlerName turns the function name Gin reports into something
// readable: methods keep "type.method", closures take the name of the
// function that built them.
//
//	github.com/kbukum/adapters/server.(*nodeHandler).list-fm -> nodeHandler.list
//	github.com/kbukum/adapters/server/endpoint.Health.func1  -> health
func formatHandlerName(full string) string {
	name := strings.TrimSuffix(path.Base(full), "-fm")
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	if len(parts) > 0 {
		parts = parts[1:] // package
	}
	for i, p := range parts {
		if strings.HasPrefix(p, "func") && i > 0 {
			return strings.ToLower(parts[i-1])
		}
	}
	return strings.Join(parts, ".")
}
