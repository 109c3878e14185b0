package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

/* ===============================
   JSON envelope
   {success, message?, ...payload}
=================================*/

func envelope(success bool, message string, payload fiber.Map) fiber.Map {
	body := fiber.Map{"success": success}
	if strings.TrimSpace(message) != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	return body
}

// JsonOK: generic success (GET detail, lists). Payload keys are spread at the
// top level next to "success", matching the existing API clients.
func JsonOK(c *fiber.Ctx, message string, payload fiber.Map) error {
	return c.Status(fiber.StatusOK).JSON(envelope(true, message, payload))
}

// JsonCreated: success for POST creates (201).
func JsonCreated(c *fiber.Ctx, message string, payload fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(envelope(true, message, payload))
}

// JsonError: failure with a descriptive message.
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	return c.Status(status).JSON(envelope(false, message, nil))
}

// JsonValidationError flattens validator.v10 errors into one 400 message.
func JsonValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Field()+" ("+fe.Tag()+")")
	}
	return JsonError(c, fiber.StatusBadRequest, "Invalid input: "+strings.Join(parts, ", "))
}

// FromFiberError converts an error bubbled out of a transaction (usually a
// *fiber.Error) into the standard envelope. Anything else becomes a 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}
