package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/pkg/auth"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// RateLimiter tracks request counts per client IP within a fixed
// window that starts at the IP's first request and resets once it
// elapses.
type RateLimiter struct {
	mu         sync.Mutex
	limits     map[string]*ipLimit
	rate       int
	window     time.Duration
	lastClean  time.Time
	cleanEvery time.Duration
}

type ipLimit struct {
	count   int
	resetAt time.Time
}

// Middleware holds every gin middleware handler for the transport.
type Middleware struct {
	jwtService  *auth.JWTService
	log         *logger.Logger
	rateLimiter *RateLimiter
}

// NewMiddleware wires the shared middleware handlers.
func NewMiddleware(jwtService *auth.JWTService, log *logger.Logger, rate int, window time.Duration) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		log:        log,
		rateLimiter: &RateLimiter{
			limits:     make(map[string]*ipLimit),
			rate:       rate,
			window:     window,
			lastClean:  time.Now(),
			cleanEvery: 5 * time.Minute,
		},
	}
}

// LoggerMiddleware logs method, path, status and latency for every
// request.
func (m *Middleware) LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		m.log.Info("api request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// RecoveryMiddleware recovers from a handler panic and returns 500
// instead of crashing the process.
func (m *Middleware) RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				m.log.Error("recovered from panic", zap.Any("error", r))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// CORSMiddleware sets permissive CORS headers for browser clients.
func (m *Middleware) CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AuthMiddleware requires a valid bearer token and populates the
// operator identity on the context.
func (m *Middleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			m.log.Error("invalid token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("operatorID", claims.OperatorID)
		c.Set("operatorRole", claims.Role)
		c.Next()
	}
}

// RequireManager restricts a route to the MANAGER or ADMIN operator
// roles, for purchase-return approval and vendor-credit issuance.
func (m *Middleware) RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("operatorRole")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		operatorRole, _ := role.(auth.OperatorRole)
		if !auth.IsManager(operatorRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "manager access required"})
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware limits requests per client IP.
func (m *Middleware) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reached, remaining, resetAt := m.checkRateLimit(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(m.rateLimiter.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (m *Middleware) checkRateLimit(ip string) (bool, int, time.Time) {
	m.rateLimiter.mu.Lock()
	defer m.rateLimiter.mu.Unlock()

	now := time.Now()
	if now.Sub(m.rateLimiter.lastClean) > m.rateLimiter.cleanEvery {
		for key, limit := range m.rateLimiter.limits {
			if now.After(limit.resetAt) {
				delete(m.rateLimiter.limits, key)
			}
		}
		m.rateLimiter.lastClean = now
	}

	limit, exists := m.rateLimiter.limits[ip]
	if !exists || now.After(limit.resetAt) {
		limit = &ipLimit{resetAt: now.Add(m.rateLimiter.window)}
		m.rateLimiter.limits[ip] = limit
	}
	limit.count++

	remaining := m.rateLimiter.rate - limit.count
	if remaining < 0 {
		remaining = 0
	}
	return limit.count > m.rateLimiter.rate, remaining, limit.resetAt
}
