package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/user"
)

// requireRole only lets through callers whose role meets the minimum role
// requirement. It runs before any validation or store access so unauthorized
// callers learn nothing about the targeted record.
func requireRole(minRole int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !user.Allowed(claims.Role, minRole) {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}
