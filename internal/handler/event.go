// Package handler exposes HTTP handlers for both authenticated and
// public endpoints.  This file serves the event catalog: public
// listings with the derived registration count embedded (and the
// caller's own registration flag when a valid token is presented), plus
// the superadmin create/delete surface.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/s1res/digital-navigator/internal/config"
	"github.com/s1res/digital-navigator/internal/model"
	"github.com/s1res/digital-navigator/internal/repository"
)

// EventHandler bundles the catalog and the registration ledger for the
// event endpoints.  The ledger is consulted only for the derived count
// and membership views; ownership of registrations stays with it.
type EventHandler struct {
	Cfg           config.Config
	Events        *repository.EventRepo
	Registrations *repository.RegistrationRepo
}

// NewEventHandler constructs an EventHandler with the provided repositories.
func NewEventHandler(cfg config.Config, events *repository.EventRepo, regs *repository.RegistrationRepo) *EventHandler {
	return &EventHandler{Cfg: cfg, Events: events, Registrations: regs}
}

// eventView is an event in list and detail responses.  IsRegistered is
// present only when the request carried a valid token.
type eventView struct {
	ID                uint64    `json:"id"`
	Title             string    `json:"title"`
	Description       *string   `json:"description,omitempty"`
	StartsAt          time.Time `json:"starts_at"`
	Location          *string   `json:"location,omitempty"`
	RegistrationCount uint64    `json:"registration_count"`
	IsRegistered      *bool     `json:"is_registered,omitempty"`
}

type createEventReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at"` // RFC3339
	Location    string `json:"location"`
}

func (h *EventHandler) view(ctx context.Context, ev *model.Event, userID uint64, authed bool) (eventView, error) {
	count, err := h.Registrations.CountByEvent(ctx, ev.ID)
	if err != nil {
		return eventView{}, err
	}
	v := eventView{
		ID:                ev.ID,
		Title:             ev.Title,
		Description:       ev.Description,
		StartsAt:          ev.StartsAt,
		Location:          ev.Location,
		RegistrationCount: count,
	}
	if authed {
		registered, err := h.Registrations.IsRegistered(ctx, ev.ID, userID)
		if err != nil {
			return eventView{}, err
		}
		v.IsRegistered = &registered
	}
	return v, nil
}

// ListEvents handles GET /v1/events.  Events are ordered by scheduled
// time; each carries its live registration count.
func (h *EventHandler) ListEvents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	userID, authed := optionalUserID(c, h.Cfg.JWTSecret)

	items := make([]eventView, 0, len(events))
	for i := range events {
		v, err := h.view(ctx, &events[i], userID, authed)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		items = append(items, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetEvent handles GET /v1/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	userID, authed := optionalUserID(c, h.Cfg.JWTSecret)
	v, err := h.view(ctx, ev, userID, authed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, v)
}

// CreateEvent handles POST /v1/events (superadmin).  StartsAt must be
// RFC3339; title and starts_at are required.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.StartsAt == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/starts_at required"})
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}

	ev := model.Event{Title: req.Title, StartsAt: startsAt.UTC()}
	if d := strings.TrimSpace(req.Description); d != "" {
		ev.Description = &d
	}
	if l := strings.TrimSpace(req.Location); l != "" {
		ev.Location = &l
	}
	if uid, err := getUserID(c); err == nil {
		ev.CreatedBy = &uid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Events.Create(ctx, &ev)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":        id,
		"title":     ev.Title,
		"starts_at": ev.StartsAt,
	})
}

// DeleteEvent handles DELETE /v1/events/:id (superadmin).  Registrations
// for the event are removed by the storage layer's cascading foreign
// key, so no ledger call is needed here.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	removed, err := h.Events.Delete(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	if !removed {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
