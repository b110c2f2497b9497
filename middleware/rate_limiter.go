package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	idleClientTTL     = 10 * time.Minute
)

// rateLimiterStore maps client IPs to their limiters. Idle clients age out.
type rateLimiterStore struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	perMin   int
	mu       sync.Mutex
}

func newRateLimiterStore(requestsPerMin int) *rateLimiterStore {
	if requestsPerMin <= 0 {
		requestsPerMin = 100
	}
	return &rateLimiterStore{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, idleClientTTL),
		perMin:   requestsPerMin,
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters.Get(ip)
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
	}
	// Re-adding refreshes the idle TTL.
	s.limiters.Add(ip, limiter)
	return limiter
}

// RateLimitMiddleware allows requestsPerMin requests per client IP, with an equal burst.
func RateLimitMiddleware(requestsPerMin int, logger *zap.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(requestsPerMin)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip).Allow() {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
