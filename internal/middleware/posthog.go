package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequestTracker receives one analytics event per successful mutating request.
// *utils.PosthogClientWrapper satisfies it.
type RequestTracker interface {
	IsInitialized() bool
	Enqueue(distinctID string, event string, properties map[string]any)
}

const apiPrefix = "/api/v1/"

// PosthogMiddleware tracks successful authenticated writes as
// "<resource>_<action>" events, e.g. instruments_collect or cash_entries.
// Reads are not tracked; the services emit their own settlement events.
func PosthogMiddleware(tracker RequestTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if tracker == nil || !tracker.IsInitialized() || c.Request.Method == http.MethodGet {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		actorID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		event := eventNameForRoute(c.FullPath())
		if event == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		for _, p := range c.Params {
			props[p.Key] = p.Value
		}
		tracker.Enqueue(actorID, event, props)
	}
}

// eventNameForRoute drops the API prefix and path parameters from a route
// template: "/api/v1/instruments/:instrumentID/collect" -> "instruments_collect".
func eventNameForRoute(route string) string {
	rest, found := strings.CutPrefix(route, apiPrefix)
	if !found {
		return ""
	}
	var parts []string
	for _, seg := range strings.Split(rest, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		parts = append(parts, strings.ReplaceAll(seg, "-", "_"))
	}
	return strings.Join(parts, "_")
}
