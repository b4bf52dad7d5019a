package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func errorJSON(c *fiber.Ctx, status int, msg string, err error) error {
	body := fiber.Map{"error": msg}
	if err != nil {
		body["cause"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

// parseBody decodes and validates the JSON body into req. When it returns
// false the error response has already been written.
func parseBody(c *fiber.Ctx, req any) (bool, error) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return false, errorJSON(c, fiber.StatusBadRequest, "invalid JSON", err)
		}
	}
	if err := validate.Struct(req); err != nil {
		return false, errorJSON(c, fiber.StatusBadRequest, "validation failed", err)
	}
	return true, nil
}
