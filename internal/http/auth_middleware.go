package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eatrite-api/internal/domain"
	"eatrite-api/internal/service"
)

const identityKey = "auth_identity"

var errMissingToken = errors.New("missing token")

type userLookup interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// Authorizer resuelve la identidad del bearer token antes de los handlers.
type Authorizer struct {
	logger *zap.Logger
	jwt    *service.JWTService
	users  userLookup
}

func NewAuthorizer(logger *zap.Logger, jwtSvc *service.JWTService, users userLookup) *Authorizer {
	return &Authorizer{logger: logger, jwt: jwtSvc, users: users}
}

// RequireAuth rechaza la peticion si no hay una identidad conocida.
func (a *Authorizer) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.resolve(c)
		if err != nil {
			a.reject(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth deja pasar peticiones sin Authorization como Anonymous. Un token
// presente pero invalido se rechaza igual que en RequireAuth.
func (a *Authorizer) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.resolve(c)
		if errors.Is(err, errMissingToken) {
			c.Set(identityKey, domain.AnonymousIdentity())
			c.Next()
			return
		}
		if err != nil {
			a.reject(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func (a *Authorizer) resolve(c *gin.Context) (domain.Identity, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return domain.Identity{}, errMissingToken
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return domain.Identity{}, domain.ErrMalformed
	}
	if a.jwt == nil || a.users == nil {
		return domain.Identity{}, errors.New("authorizer not configured")
	}

	claims, err := a.jwt.Validate(strings.TrimSpace(token))
	if err != nil {
		return domain.Identity{}, err
	}
	user, err := a.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, domain.ErrUnauthorized
		}
		return domain.Identity{}, err
	}
	if user.Disabled {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return domain.KnownIdentity(user), nil
}

func (a *Authorizer) reject(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", "Bearer")
	switch {
	case errors.Is(err, errMissingToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(kindUnauthorized, "not authenticated"))
	case errors.Is(err, domain.ErrMalformed):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(kindMalformed, "invalid token"))
	case errors.Is(err, domain.ErrExpired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(kindUnauthorized, "token expired"))
	case errors.Is(err, domain.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(kindUnauthorized, "could not validate credentials"))
	default:
		respondError(c, a.logger, err, nil)
	}
}

// IdentityFrom obtiene la identidad resuelta por el Authorizer.
func IdentityFrom(c *gin.Context) domain.Identity {
	val, ok := c.Get(identityKey)
	if !ok {
		return domain.AnonymousIdentity()
	}
	identity, ok := val.(domain.Identity)
	if !ok {
		return domain.AnonymousIdentity()
	}
	return identity
}
