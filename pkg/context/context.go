package context

import (
	"context"

	"PhotoAnalyzer/pkg/log"
	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey = log.RequestIDKey
	headerKey    = "X-Request-ID"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID) //nolint:staticcheck
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx detaches a request-scoped context from fasthttp so it can
// outlive the handler goroutine's reuse of *fiber.Ctx.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := context.Background()

	requestID, ok := c.Locals(headerKey).(string)
	if !ok || requestID == "" {
		requestID = c.Get(headerKey)

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(ctx, requestID)
}
