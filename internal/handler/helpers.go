package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	parsed, err := strconv.ParseUint(c.Params(key), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func parseQueryUint(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, err
	}
	result := uint(parsed)
	return &result, nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
