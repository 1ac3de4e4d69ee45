package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/s1res/digital-navigator/internal/queue"
	"github.com/s1res/digital-navigator/internal/repository"
	queue_publisher "github.com/s1res/digital-navigator/internal/service"
)

// RegistrationHandler drives the registration ledger on behalf of
// authenticated users and admins.  Event existence is checked against
// the catalog before every ledger call; the ledger itself trusts its
// caller on referential validity.  All methods assume JWT validation
// has already happened in middleware and may return 401 when no user ID
// can be extracted from the context.
type RegistrationHandler struct {
	Events        *repository.EventRepo
	Users         *repository.UserRepo
	Registrations *repository.RegistrationRepo
}

// NewRegistrationHandler constructs a RegistrationHandler with the
// provided repositories.  All dependencies must be non-nil.
func NewRegistrationHandler(events *repository.EventRepo, users *repository.UserRepo, regs *repository.RegistrationRepo) *RegistrationHandler {
	if events == nil || users == nil || regs == nil {
		panic("nil repository passed to NewRegistrationHandler")
	}
	return &RegistrationHandler{Events: events, Users: users, Registrations: regs}
}

// Register handles POST /v1/events/:id/register.  The uniqueness
// decision belongs to the ledger's atomic insert: a duplicate pair maps
// to 409 regardless of how many requests race for it.
func (h *RegistrationHandler) Register(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	regID, err := h.Registrations.Register(ctx, eventID, userID)
	if err != nil {
		if err == repository.ErrDuplicateRegistration {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already registered for this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	// Best effort: downstream consumers log and notify, the registration
	// itself is already committed.
	if u, uerr := h.Users.GetByID(ctx, userID); uerr == nil {
		location := ""
		if ev.Location != nil {
			location = *ev.Location
		}
		_ = queue_publisher.PublishRegistrationCreated(ctx, queue.RegistrationCreatedEvent{
			RegistrationID: regID,
			EventID:        eventID,
			UserID:         userID,
			EventTitle:     ev.Title,
			StartsAt:       ev.StartsAt.UTC().Format(time.RFC3339),
			Location:       location,
			Username:       u.Username,
			Email:          u.Email,
			RegisteredAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"registration_id": regID,
		"message":         "registered for event",
	})
}

// Unregister handles DELETE /v1/events/:id/register.  The ledger treats
// a missing registration as a no-op reporting false; the HTTP layer
// turns that into a 400 so clients learn they were not registered.
func (h *RegistrationHandler) Unregister(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	removed, err := h.Registrations.Unregister(ctx, eventID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unregister failed"})
	}
	if !removed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "not registered for this event"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "registration cancelled",
	})
}

// MyRegistrations handles GET /v1/my-registrations.  The list is joined
// with event details and ordered by the event's scheduled time.
func (h *RegistrationHandler) MyRegistrations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Registrations.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// EventAttendees handles GET /v1/events/:id/registrations (admin and
// superadmin).  The roster is joined with user details and ordered by
// registration time, first registered first.
func (h *RegistrationHandler) EventAttendees(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	items, err := h.Registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event": echo.Map{
			"id":        ev.ID,
			"title":     ev.Title,
			"starts_at": ev.StartsAt,
		},
		"items": items,
		"total": len(items),
	})
}
