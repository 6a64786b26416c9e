package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tedris-portal/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxClaims = "claims"
)

// UserID returns the authenticated user's ID, or false when the request
// did not pass JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the role claim of the authenticated user.
func Role(c echo.Context) string {
	role, _ := c.Get(ctxRole).(string)
	return role
}

// Claims returns the parsed access token claims, or nil.
func Claims(c echo.Context) *utils.Claims {
	cl, _ := c.Get(ctxClaims).(*utils.Claims)
	return cl
}

// subject identifies the caller in rate limit keys: the user ID when
// authenticated, "anon" otherwise.
func subject(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
