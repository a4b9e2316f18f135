package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope used by every JSON endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess writes a 200 response carrying data and a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus writes a success payload with an explicit status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError writes an error envelope with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
	})
}
