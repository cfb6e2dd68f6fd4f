package middleware

import (
	"fmt"
	"sync"
	"time"

	contextPkg "PhotoAnalyzer/pkg/context"
	"PhotoAnalyzer/pkg/response"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

var (
	ErrTooManyRequests = response.NewError(fiber.StatusTooManyRequests, "too many requests")
)

const sharedWindow = time.Second

type rateLimiter struct {
	bucket    map[string]*rate.Limiter
	rate      rate.Limit
	burstSize int
	mutex     *sync.RWMutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*rate.Limiter),
		rate:      reqRate,
		burstSize: burstSize,
		mutex:     &sync.RWMutex{},
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	r.mutex.RLock()
	limiter, exist := r.bucket[ip]
	r.mutex.RUnlock()
	if exist {
		return limiter
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exist := r.bucket[ip]; !exist {
		r.bucket[ip] = rate.NewLimiter(r.rate, r.burstSize)
	}

	return r.bucket[ip]
}

// sharedBudget is the per-window request count allowed by the Redis limiter:
// the sustained rate plus the burst, over one window.
func (r *rateLimiter) sharedBudget() int64 {
	return int64(float64(r.rate)*sharedWindow.Seconds()) + int64(r.burstSize)
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()

	if m.sharedLimiter != nil {
		window := time.Now().Truncate(sharedWindow).Unix()
		key := fmt.Sprintf("ratelimit:%s:%d", clientIP, window)

		count, err := m.sharedLimiter.IncrWindow(contextPkg.FromFiberCtx(ctx), key, 2*sharedWindow)
		if err == nil {
			if count > m.rateLimitter.sharedBudget() {
				return m.tooManyRequests(ctx, clientIP)
			}
			return ctx.Next()
		}

		m.log.WithField("error", err.Error()).Warn("shared rate limiter unavailable, using local limiter")
	}

	if !m.rateLimitter.GetLimiterFrom(clientIP).Allow() {
		return m.tooManyRequests(ctx, clientIP)
	}

	return ctx.Next()
}

func (m *middleware) tooManyRequests(ctx *fiber.Ctx, clientIP string) error {
	m.log.Warnf("too many requests for IP %s", clientIP)
	return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": ErrTooManyRequests.Error(),
	})
}
