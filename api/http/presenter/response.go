package presenter

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the body of auth endpoint failures.
type ErrorResponse struct {
	Message string `json:"message"`
}

// FailureResponse is the body of watchlist endpoint failures.
type FailureResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, FailureResponse{Error: message})
}

func Message(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, MessageResponse{Message: message})
}
