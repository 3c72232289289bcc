package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jhonidlcb/softwarepar/internal/domain/user"
)

// Actor is the authenticated caller. Authentication itself happens
// upstream (session gateway / reverse proxy); this layer only carries
// the resolved identity into handlers.
type Actor struct {
	ID       uint64
	Role     user.Role
	Email    string
	FullName string
}

func (a *Actor) IsAdmin() bool { return a.Role == user.RoleAdmin }

const actorContextKey = "actor"

// IdentityResolver turns a request into an Actor, or an error when the
// request carries no valid identity.
type IdentityResolver func(c echo.Context) (*Actor, error)

func Identity(resolve IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := resolve(c)
			if err != nil || actor == nil || actor.ID == 0 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "No autenticado"})
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

// ActorFrom returns the actor set by Identity, nil outside of it.
func ActorFrom(c echo.Context) *Actor {
	a, _ := c.Get(actorContextKey).(*Actor)
	return a
}

func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFrom(c)
			if actor == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "No autenticado"})
			}
			for _, r := range roles {
				if actor.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"message": "No autorizado"})
		}
	}
}

var errNoIdentity = errors.New("no identity headers")

// HeaderResolver trusts the upstream gateway to inject the resolved
// identity as X-User-* headers. Only deploy behind a proxy that strips
// these headers from client traffic.
func HeaderResolver() IdentityResolver {
	return func(c echo.Context) (*Actor, error) {
		h := c.Request().Header
		rawID := strings.TrimSpace(h.Get("X-User-Id"))
		if rawID == "" {
			return nil, errNoIdentity
		}
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil || id == 0 {
			return nil, errNoIdentity
		}
		role := user.Role(strings.TrimSpace(h.Get("X-User-Role")))
		switch role {
		case user.RoleAdmin, user.RoleClient, user.RolePartner:
		default:
			role = user.RoleClient
		}
		return &Actor{
			ID:       id,
			Role:     role,
			Email:    strings.TrimSpace(h.Get("X-User-Email")),
			FullName: strings.TrimSpace(h.Get("X-User-Name")),
		}, nil
	}
}
