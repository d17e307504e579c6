package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID between callers and this service.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the locals key handlers read the request ID from.
	RequestIDLocalKey = "request_id"
)

// RequestID tags every request with an ID that is echoed in the response
// header and attached to log lines and error envelopes. An inbound
// X-Request-ID is reused only when it is a valid UUID; anything else is
// replaced so the IDs recorded next to consent state changes stay uniform.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
