package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Message string `json:"message"`
}

// ValidationResponse carries row indexes the client must highlight:
// qualification rows that were left without an evaluation status.
type ValidationResponse struct {
	Message          string `json:"message"`
	MissingMinimum   []int  `json:"missingMinimum,omitempty"`
	MissingPreferred []int  `json:"missingPreferred,omitempty"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}
