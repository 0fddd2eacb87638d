package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/backend"
	"bloomadmin/internal/console"
	"bloomadmin/internal/log"
	"bloomadmin/internal/validate"
)

// failure maps a mutation error to a status and the message shown to the admin.
func failure(err error) (int, string) {
	var ve validate.Errors
	var fe *backend.FetchError
	switch {
	case errors.As(err, &ve):
		return fiber.StatusUnprocessableEntity, "Please fix: " + strings.TrimPrefix(ve.Error(), "validation failed: ")
	case errors.Is(err, console.ErrBusy):
		return fiber.StatusConflict, "A change to this record is already in progress."
	case errors.Is(err, console.ErrClosed):
		return fiber.StatusConflict, "Your session has ended. Please sign in again."
	case errors.As(err, &fe):
		return fiber.StatusBadGateway, backend.Message(err)
	}
	return fiber.StatusInternalServerError, "Something went wrong. Please try again."
}

// fail logs a failed mutation, leaves a flash message and redirects back to the list.
func fail(c *fiber.Ctx, action, back string, err error, fields map[string]any) error {
	status, msg := failure(err)
	if status == fiber.StatusUnprocessableEntity {
		log.Security(c, "validation.fail", mergeFields(fields, map[string]any{"action": action, "errors": err.Error()}))
	} else {
		log.Error(c, action+".fail", err, fields)
	}
	setFlash(c, "error", msg)
	return c.Redirect(back, fiber.StatusSeeOther)
}

func mergeFields(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
