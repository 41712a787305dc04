package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/service"
	"shop-backoffice/internal/util"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// currentPrincipal returns the authenticated principal set by authRequired
func currentPrincipal(c *gin.Context) *service.Principal {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	return value.(*service.Principal)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// authRequired resolves the bearer token and touches the principal's
// sliding session. An expired session is indistinguishable from a missing
// one to the caller: both are 401.
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := h.auth.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		if _, err := h.sessions.Touch(c.Request.Context(), principal.SessionKey()); err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// adminRequired rejects customer principals. Must run after authRequired.
func adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := currentPrincipal(c)
		if principal == nil || principal.Kind != service.PrincipalAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// customerRequired rejects admin principals. Must run after authRequired.
func customerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := currentPrincipal(c)
		if principal == nil || principal.Kind != service.PrincipalCustomer {
			c.JSON(http.StatusForbidden, gin.H{"error": "customer access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// respondError maps domain errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrSessionExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
