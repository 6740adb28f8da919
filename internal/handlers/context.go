package handlers

import "github.com/labstack/echo/v4"

// getUserIDFromContext returns the authenticated caller's id stored by the
// identity middleware, or 0 when the request carries no identity.
func getUserIDFromContext(c echo.Context) uint {
	id, _ := c.Get("userID").(uint)
	return id
}
