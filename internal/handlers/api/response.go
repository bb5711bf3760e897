package api

import (
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"kwresearch/internal/logging"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// jsonFailure logs err and returns a 500 envelope carrying its message,
// capitalized for clients.
func jsonFailure(c fiber.Ctx, err error) error {
	log := logging.With("api")
	log.Error().
		Err(err).
		Str("request_id", requestid.FromContext(c)).
		Str("route", c.Path()).
		Msg("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   clientMessage(err),
	})
}

// clientMessage upper-cases the first letter of err's message. Go errors
// start lowercase; clients expect "Failed to ...".
func clientMessage(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// jsonError returns a client error with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
