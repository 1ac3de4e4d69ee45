package router

import (
	"github.com/labstack/echo/v4"

	"github.com/s1res/digital-navigator/internal/handler"
	"github.com/s1res/digital-navigator/internal/middleware"
)

// RegisterUser registers the registration endpoints available to any
// authenticated user.  All routes require a valid JWT; any role may
// register for events and inspect its own registrations.
func RegisterUser(e *echo.Echo, h *handler.RegistrationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
	)
	g.POST("/events/:id/register", h.Register)
	g.DELETE("/events/:id/register", h.Unregister)
	g.GET("/my-registrations", h.MyRegistrations)
}

// RegisterAdmin registers the staff-facing endpoints.  Attendee rosters
// are visible to admins and superadmins; creating and removing catalog
// events is reserved for superadmins.
func RegisterAdmin(e *echo.Echo, rh *handler.RegistrationHandler, eh *handler.EventHandler, jwtSecret string) {
	staff := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin", "superadmin"),
	)
	staff.GET("/events/:id/registrations", rh.EventAttendees)

	super := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("superadmin"),
	)
	super.POST("/events", eh.CreateEvent)
	super.DELETE("/events/:id", eh.DeleteEvent)
}
