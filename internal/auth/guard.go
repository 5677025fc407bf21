package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "userdir/internal/errors"
	"userdir/internal/model"
)

// ContextUserKey is where LoadUser stores the resolved record on the request.
const ContextUserKey = "currentUser"

// UserResolver is the slice of the repository the guard needs to turn an
// asserted identity into a live record.
type UserResolver interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// Guard is the second stage of request authentication. The JWT middleware has
// already checked signature and expiry; the guard resolves the asserted email
// to a current directory record and attaches it to the request context. A
// token for a since-deleted user is rejected exactly like a forged one, so a
// caller cannot probe which identities still exist.
type Guard struct {
	users UserResolver
}

// NewGuard creates a guard backed by the given resolver.
func NewGuard(users UserResolver) *Guard {
	return &Guard{users: users}
}

// LoadUser is echo middleware for routes behind the JWT middleware.
func (g *Guard) LoadUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return rejectUnauthorized()
		}
		claims, ok := token.Claims.(*Claims)
		if !ok || claims.Email == "" {
			return rejectUnauthorized()
		}

		user, err := g.users.FindByEmail(c.Request().Context(), claims.Email)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return rejectUnauthorized()
			}
			httpErr := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}

		c.Set(ContextUserKey, user)
		return next(c)
	}
}

// CurrentUser returns the record LoadUser resolved for this request.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	return user, ok
}

func rejectUnauthorized() error {
	httpErr := apperrors.Unauthorized()
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
