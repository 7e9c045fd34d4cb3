package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// LocalsRequestID is the fiber locals key and header the request id
// middleware uses.
const LocalsRequestID = "X-Request-ID"

const unknownRequestID = "unknown"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return unknownRequestID
	}
	requestID, ok := ctx.Value(requestIDKey{}).(string)
	if !ok || requestID == "" {
		return unknownRequestID
	}
	return requestID
}

// FromFiberCtx returns a context detached from c that only carries its
// request id. fiber recycles c once the handler returns, so nothing derived
// from it may outlive the request.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	return WithRequestID(context.Background(), requestIDOf(c))
}

func requestIDOf(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalsRequestID).(string); ok && id != "" {
		return id
	}
	if id := c.Get(LocalsRequestID); id != "" {
		return id
	}
	return unknownRequestID
}
