package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

// Context keys set by JWTAuth.
const (
	CtxUserID = "user_id" // uint64
	CtxRole   = "role"    // model.Role
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject and role into the request context.  The
// provided secret must match the one used when issuing tokens.  Handlers
// read the values with c.Get("user_id") (a uint64) and c.Get("role") (a
// model.Role).  A token whose role is not one of the known roles is
// rejected here, so downstream code never sees an unknown role.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, role, err := ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(CtxUserID, uid)
			c.Set(CtxRole, role)
			return next(c)
		}
	}
}

// ParseAccessToken verifies an HS256 access token and returns its subject
// and role.  JSON numbers decode as float64, so the subject is converted
// back to uint64 here.
func ParseAccessToken(secret, raw string) (uint64, model.Role, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject anything not signed with HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", echo.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", echo.ErrUnauthorized
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, "", echo.ErrUnauthorized
	}
	roleStr, _ := claims["role"].(string)
	role, err := model.ParseRole(roleStr)
	if err != nil {
		return 0, "", echo.ErrUnauthorized
	}
	return uint64(sub), role, nil
}
