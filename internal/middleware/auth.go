package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ServiceAuth guards the bot-facing API with an HMAC service token. The
// payment webhook route is registered outside this middleware.
func ServiceAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			token, err := jwt.Parse(strings.TrimPrefix(header, prefix), func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid service token")
			}

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if svc, _ := claims["svc"].(string); svc != "" {
					c.Set("service", svc)
				}
			}
			return next(c)
		}
	}
}

// NewServiceToken mints a token for a calling service; used by operators and
// in tests.
func NewServiceToken(secret []byte, service string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"svc": service,
		"exp": jwt.NewNumericDate(time.Now().Add(ttl)),
		"iat": jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
