package http

import (
	"fmt"
	"strings"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// IdentityMode selects where the caller principal comes from.
type IdentityMode string

const (
	IdentityFromHeader IdentityMode = "header"
	IdentityFromJWT    IdentityMode = "jwt"
)

const callerContextKey = "proofparcel.caller"

// IdentityConfig selects how callers are identified: a trusted header or a
// bearer JWT signed with JWTSecret.
type IdentityConfig struct {
	Mode      IdentityMode
	Header    string
	JWTSecret []byte
}

func (cfg IdentityConfig) Validate() error {
	switch cfg.Mode {
	case IdentityFromHeader:
		if strings.TrimSpace(cfg.Header) == "" {
			return errs.NewValueIsRequiredError("identity header")
		}
	case IdentityFromJWT:
		if len(cfg.JWTSecret) == 0 {
			return errs.NewValueIsRequiredError("jwt secret")
		}
	default:
		return errs.NewValueIsInvalidErrorWithCause("identity mode", fmt.Errorf("%q is not header or jwt", cfg.Mode))
	}
	return nil
}

// Identity resolves the caller principal and stores it on the context.
// Requests without credentials pass through anonymously; bad credentials
// are rejected as Unauthorized.
func Identity(cfg IdentityConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := cfg.principal(c)
			if err != nil {
				return err
			}
			if raw == "" {
				return next(c)
			}

			caller, err := kernel.NewPrincipal(raw)
			if err != nil {
				return errs.NewDomainErrorWithCause(errs.KindUnauthorized, "caller principal is invalid", err)
			}
			c.Set(callerContextKey, caller)
			return next(c)
		}
	}
}

func (cfg IdentityConfig) principal(c echo.Context) (string, error) {
	if cfg.Mode != IdentityFromJWT {
		return strings.TrimSpace(c.Request().Header.Get(cfg.Header)), nil
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", nil
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errs.NewDomainError(errs.KindUnauthorized, "authorization must be a bearer token")
	}

	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return cfg.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errs.NewDomainErrorWithCause(errs.KindUnauthorized, "bearer token is invalid", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errs.NewDomainErrorWithCause(errs.KindUnauthorized, "bearer token has no subject", err)
	}
	return subject, nil
}

func callerFrom(c echo.Context) *kernel.Principal {
	caller, ok := c.Get(callerContextKey).(kernel.Principal)
	if !ok {
		return nil
	}
	return &caller
}

func requireCaller(c echo.Context) (kernel.Principal, error) {
	caller := callerFrom(c)
	if caller == nil {
		return kernel.Principal{}, errs.NewDomainError(errs.KindUnauthorized, "caller identity is required")
	}
	return *caller, nil
}
