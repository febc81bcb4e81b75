// Package middleware carries the authorization guard: Session proves the
// caller holds a valid token, LoadAccount resolves it to a live account and
// RequireRoles gates routes on role membership.
package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"rentify/internal/auth"
	"rentify/internal/errors"
	"rentify/internal/model"
	"rentify/internal/repository"
)

const accountKey = "account"

// Session validates the session token taken from the cookie or the
// Authorization header. Missing, malformed and expired tokens all produce
// the same 401.
func Session(jwtSvc *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + auth.CookieName + ",header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtSvc.ValidateToken(tokenString)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errors.Auth("Not authorized to access this route")
		},
	})
}

// LoadAccount resolves validated claims to the stored account and attaches it
// to the request context. A token whose account no longer exists fails with
// the same 401 as an invalid token.
func LoadAccount(accounts repository.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return errors.Auth("Not authorized to access this route")
			}
			account, err := accounts.FindByID(c.Request().Context(), claims.AccountID)
			if err != nil {
				return errors.Auth("Not authorized to access this route")
			}
			c.Set(accountKey, account)
			return next(c)
		}
	}
}

// RequireRoles rejects authenticated callers whose role is outside the
// allowed set.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := AccountFrom(c)
			if account == nil {
				return errors.Auth("Not authorized to access this route")
			}
			for _, role := range roles {
				if account.Role == role {
					return next(c)
				}
			}
			return errors.Forbidden("Role %s is not authorized to access this route", account.Role)
		}
	}
}

// AccountFrom returns the authenticated account attached by LoadAccount, or
// nil on public routes.
func AccountFrom(c echo.Context) *model.Account {
	account, _ := c.Get(accountKey).(*model.Account)
	return account
}
