package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/hireloop/interviewd/internal/booking"
)

type Server interface {
	Serve(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Authorizer decides whether the (already authenticated) caller may use
// a route group. Role and ownership logic belongs to the surrounding
// platform; this server only exposes the hook.
type Authorizer interface {
	Authorize(c *fiber.Ctx) (bool, error)
}

type coordinator interface {
	Assign(ctx context.Context, slotID, intervieweeID string) error
	Book(ctx context.Context, processID, applicationID, slotID string) error
	Cancel(ctx context.Context, intervieweeID string, opts booking.CancelOptions) error
}
