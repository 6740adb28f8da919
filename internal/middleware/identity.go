package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserIDHeader carries the authenticated caller's id, set by the upstream
// auth proxy after token verification. This service trusts it as-is;
// authentication itself happens before requests reach us.
const UserIDHeader = "X-User-ID"

// IdentityMiddleware extracts the caller's user id from UserIDHeader and
// stores it in the request context for handlers.
func IdentityMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(UserIDHeader)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user identity")
			}
			userID, err := strconv.ParseUint(header, 10, 32)
			if err != nil || userID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user identity")
			}
			c.Set("userID", uint(userID))
			return next(c)
		}
	}
}
