package startup

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gorilla/mux"

	"thumbgen/internal/logging"
)

// RouteInfo is one method and path served by the router.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Routes lists the router's routes sorted by path, one entry per method.
// Routes without a method restriction are reported as "*".
func Routes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tpl, err := route.GetPathTemplate()
		if err != nil {
			// Routes without a path matcher are not listed.
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		for _, m := range methods {
			routes = append(routes, RouteInfo{Method: m, Path: tpl, Name: route.GetName()})
		}
		return nil
	})
	slices.SortStableFunc(routes, func(a, b RouteInfo) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return routes, err
}

// LogHTTPRoutes logs the route count, and the routes grouped by their first
// path segment at debug level.
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	routes, err := Routes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}
	logging.Info("  Routes:          %d registered", len(routes))

	group := "\x00"
	for _, r := range routes {
		if g := routeGroup(r.Path); g != group {
			group = g
			logging.Debug("  [%s]", cmp.Or(g, "root"))
		}
		logging.Debug("    %-6s %s", r.Method, r.Path)
	}

	if logHealthChecks {
		logging.Info("  Health check logging: ON")
	} else {
		logging.Info("  Health check logging: OFF (set THUMBGEN_SERVER_LOG_HEALTH_CHECKS=true to enable)")
	}
}

// routeGroup is the first path segment, or the first two under /api.
func routeGroup(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if parts[0] == "api" && len(parts) > 1 {
		return "api/" + parts[1]
	}
	return parts[0]
}
