package handler

// common.go holds identity helpers shared by handler files.  Protected
// routes read the user ID that the JWT middleware stored in the
// context; public browse routes peek at the Authorization header
// themselves so guests and logged-in users share one endpoint.

import (
	"errors"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var errNoUser = errors.New("no user in context")

// getUserID extracts the authenticated user's ID from the Echo context.
// JWT numeric claims decode as float64; some issuers encode the subject
// as a numeric string, so both forms are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), nil
	case string:
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			return parsed, nil
		}
	case uint64:
		return v, nil
	}
	return 0, errNoUser
}

// optionalUserID parses a Bearer token from the request when one is
// present and returns the subject user ID.  Public routes use it to
// embed per-user fields without requiring authentication; an absent or
// invalid token simply reports ok=false.
func optionalUserID(c echo.Context, secret string) (uint64, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), true
	case string:
		if parsed, err := strconv.ParseUint(sub, 10, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
