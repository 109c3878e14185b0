package middlewares

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	helper "thinkfinity_backend/internals/helpers"
)

// ErrorHandler is the app-level Fiber error handler. Handlers raise
// *fiber.Error with a safe message; anything else is treated as a
// persistence/internal failure, logged in full and surfaced generically.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] id=%v unhandled: %v", c.Locals("reqid"), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
}
