package middleware

import (
	"PhotoAnalyzer/pkg/redis"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

type Option func(*middleware)

// WithRateLimit sets the per-IP request rate and burst.
func WithRateLimit(reqRate rate.Limit, burst int) Option {
	return func(m *middleware) {
		m.rateLimitter = newRateLimiter(reqRate, burst)
	}
}

// WithSharedRateLimit counts requests in Redis so every replica sees the
// same per-IP budget. The local limiter stays as the fallback.
func WithSharedRateLimit(client redis.IRedis) Option {
	return func(m *middleware) {
		m.sharedLimiter = client
	}
}

// WithTokenSecret enables bearer token checks. An empty secret leaves the
// token middleware as a pass-through.
func WithTokenSecret(secret string) Option {
	return func(m *middleware) {
		m.token = newTokenMiddleware(secret)
	}
}

type middleware struct {
	token               *tokenMiddleware
	rateLimitter        *rateLimiter
	sharedLimiter       redis.IRedis
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, opts ...Option) Middleware {
	m := &middleware{
		token:               newTokenMiddleware(""),
		rateLimitter:        newRateLimiter(50, 100),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return LoggerConfig(m.log)
}
