package rayid

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(FromContext(c))
	})
	return app
}

func TestNew_GeneratesID(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	id := resp.Header.Get(HeaderName)
	assert.Equal(t, id, string(body))
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}

func TestNew_ReusesIncomingID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderName, "upstream-ray")

	resp, err := newApp().Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "upstream-ray", string(body))
	assert.Equal(t, "upstream-ray", resp.Header.Get(HeaderName))
}
