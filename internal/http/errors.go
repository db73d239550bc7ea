package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eatrite-api/internal/domain"
	"eatrite-api/internal/service"
)

const (
	kindUnauthorized        = "Unauthorized"
	kindMalformed           = "Malformed"
	kindNotFound            = "NotFound"
	kindConflict            = "Conflict"
	kindRateLimited         = "RateLimited"
	kindPayloadTooLarge     = "PayloadTooLarge"
	kindUpstreamUnavailable = "UpstreamUnavailable"
	kindInternal            = "Internal"
)

type errorMapping struct {
	target  error
	status  int
	kind    string
	message string
}

// errorMappings traduce la taxonomia de dominio a HTTP. El orden importa:
// se usa la primera coincidencia de errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrUnauthorized, http.StatusUnauthorized, kindUnauthorized, "could not validate credentials"},
	{domain.ErrExpired, http.StatusUnauthorized, kindUnauthorized, "token expired"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, kindRateLimited, "too many requests"},
	{domain.ErrNotFound, http.StatusNotFound, kindNotFound, "resource not found"},
	{domain.ErrConflict, http.StatusConflict, kindConflict, "resource already exists"},
	{domain.ErrMalformed, http.StatusUnprocessableEntity, kindMalformed, "invalid request"},
	{service.ErrImageTooLarge, http.StatusRequestEntityTooLarge, kindPayloadTooLarge, "file too large, maximum size is 10 MB"},
	{domain.ErrUpstreamUnavailable, http.StatusServiceUnavailable, kindUpstreamUnavailable, "service temporarily unavailable"},
}

// errorBody es el unico formato de error que sale por HTTP. Nunca incluye
// detalles internos ni material de credenciales.
func errorBody(kind, message string) gin.H {
	return gin.H{"error": kind, "message": message}
}

// respondError escribe el error de dominio como respuesta HTTP. messages permite
// a cada handler dar un texto propio para un error concreto.
func respondError(c *gin.Context, logger *zap.Logger, err error, messages map[error]string) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if custom, ok := messages[m.target]; ok {
			msg = custom
		}
		if m.status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("kind", m.kind), zap.Error(err))
		}
		if m.status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		c.AbortWithStatusJSON(m.status, errorBody(m.kind, msg))
		return
	}
	logger.Error("unexpected error", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(kindInternal, "internal error"))
}

func respondInvalidRequest(c *gin.Context, logger *zap.Logger, err error, what string) {
	logger.Warn("invalid request", zap.String("request", what), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorBody(kindMalformed, "invalid request"))
}
