package httpserver

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"cleaning-crm/internal/auth"
	"cleaning-crm/internal/domain"
	usersvc "cleaning-crm/internal/service/user"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxCustomerID = "customerID"
	ctxCustomer   = "customer"
	ctxActor      = "actor"
)

// requestLogger logs every completed request; the level follows the status.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("remote_ip", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// recovery turns a panic into a 500 and logs the stack.
func recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				abortWith(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// requireCustomer accepts only a valid customer token.
func requireCustomer(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		c.Set(ctxCustomerID, claims.Subject)
		c.Next()
	}
}

// optionalCustomer loads the customer when a token is present. A present
// but invalid token is rejected.
func optionalCustomer(tokens TokenParser, customers CustomerService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			if c.GetHeader("Authorization") != "" {
				abortWith(c, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}
			c.Next()
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		cust, err := customers.Get(c.Request.Context(), claims.Subject)
		if errors.Is(err, domain.ErrNotFound) {
			abortWith(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.Set(ctxCustomerID, cust.ID)
		c.Set(ctxCustomer, cust)
		c.Next()
	}
}

// sameCustomer forbids access to another customer's :customerId path.
func sameCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("customerId") != c.GetString(ctxCustomerID) {
			abortWith(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

// customerFrom returns the customer loaded by optionalCustomer, if any.
func customerFrom(c *gin.Context) *domain.Customer {
	v, ok := c.Get(ctxCustomer)
	if !ok {
		return nil
	}
	cust, _ := v.(*domain.Customer)
	return cust
}

// requireStaff accepts only a valid staff token and stores the actor.
func requireStaff(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		claims, err := tokens.Parse(raw)
		role := domain.Role("")
		if claims != nil {
			role = domain.Role(claims.Role)
		}
		if err != nil || !role.Valid() {
			abortWith(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		c.Set(ctxActor, usersvc.Actor{ID: claims.Subject, Role: role})
		c.Next()
	}
}

func actorFrom(c *gin.Context) (usersvc.Actor, bool) {
	v, ok := c.Get(ctxActor)
	if !ok {
		return usersvc.Actor{}, false
	}
	a, ok := v.(usersvc.Actor)
	return a, ok
}

// requirePermission checks the actor's role against the RBAC policy.
func requirePermission(authz Authorizer, logger *zap.Logger, obj, act string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "User not found in context")
			return
		}
		allowed, err := authz.Allowed(actor.Role, obj, act)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		if !allowed {
			abortWith(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

var _ TokenParser = (*auth.TokenManager)(nil)
var _ Authorizer = (*auth.Authorizer)(nil)
