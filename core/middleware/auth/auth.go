package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName is the header carrying the API key.
const HeaderName = "X-API-Key"

// Config holds configuration for the auth middleware.
type Config struct {
	// ApiKey is the expected key. An empty key disables authentication.
	ApiKey string
	// Skip reports whether a request bypasses authentication.
	Skip func(c *fiber.Ctx) bool
}

// New returns a middleware rejecting requests without a valid API key.
// The key is read from the X-API-Key header or a Bearer authorization header.
func New(cfg Config) fiber.Handler {
	expected := []byte(cfg.ApiKey)

	return func(c *fiber.Ctx) error {
		if len(expected) == 0 || (cfg.Skip != nil && cfg.Skip(c)) {
			return c.Next()
		}

		key := c.Get(HeaderName)
		if key == "" {
			const prefix = "Bearer "
			if h := c.Get(fiber.HeaderAuthorization); len(h) > len(prefix) && h[:len(prefix)] == prefix {
				key = h[len(prefix):]
			}
		}

		if subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}
		return c.Next()
	}
}
