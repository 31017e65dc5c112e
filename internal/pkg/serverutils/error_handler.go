package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StatusMapping binds a sentinel error to the HTTP status it should produce.
type StatusMapping struct {
	Err  error
	Code int
}

// StatusFor resolves the HTTP status of err. Unknown errors are 500.
func StatusFor(err error, mappings ...StatusMapping) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	var validationErr *ValidationError
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &validationErr) || errors.As(err, &fieldErrs) {
		return fiber.StatusBadRequest
	}

	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			return m.Code
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware turns handler errors into the standard error body.
func ErrorHandlerMiddleware(mappings ...StatusMapping) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err, mappings...)
		message := err.Error()
		if code == fiber.StatusInternalServerError {
			message = "Internal server error"
		}

		body := ErrorResponse(code, message)
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			body.Data = validationErr.Fields
		}
		return ctx.Status(code).JSON(body)
	}
}
