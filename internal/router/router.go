// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/s1res/digital-navigator/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated event catalog endpoints.
// These routes do not apply JWT middleware themselves: guests see the
// plain catalog, while a valid Bearer token adds the caller's own
// registration flag to each event.  cacheMW, when non-nil, is the Redis
// response cache for anonymous traffic.
func RegisterPublic(e *echo.Echo, h *handler.EventHandler, cacheMW echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		mws = append(mws, cacheMW)
	}
	e.GET("/v1/events", h.ListEvents, mws...)
	e.GET("/v1/events/:id", h.GetEvent, mws...)
}
