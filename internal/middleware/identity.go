package middleware

// identity.go holds helpers shared across middleware files.  rateKeyUser
// renders the authenticated user for rate-limit bucket keys; requests
// without a verified token all share the "guest" bucket dimension.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// rateKeyUser returns a string form of the user identity stored in the
// context by JWTAuth, or "guest" when the request is unauthenticated.
func rateKeyUser(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return fmt.Sprintf("%.0f", id)
	case uint64:
		return fmt.Sprintf("%d", id)
	}
	return "guest"
}
