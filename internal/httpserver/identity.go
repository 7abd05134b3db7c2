package httpserver

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/ruslanbektulqinov01/e-commerce/internal/domain"
	middleware "github.com/ruslanbektulqinov01/e-commerce/pkg/middleware/auth"
	"github.com/ruslanbektulqinov01/e-commerce/pkg/tokens"
)

var errUnauthenticated = errors.New("unauthorized")

// identityFrom turns what the auth middleware stored into the identity the core works with.
func identityFrom(c echo.Context) (domain.Identity, error) {
	userID, ok := c.Get(middleware.ContextUserID).(uint)
	if !ok || userID == 0 {
		return domain.Identity{}, errUnauthenticated
	}
	role, _ := c.Get(middleware.ContextRole).(string)
	return domain.Identity{UserID: userID, IsAdmin: role == tokens.RoleAdmin}, nil
}
