package hub

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handler returns a fiber handler that upgrades the request and subscribes
// the connection to the hub. Mount it behind a websocket upgrade check.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		NewClient(h, c).Run()
	})
}
