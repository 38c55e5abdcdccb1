package service

import "fmt"

// WSConfig holds the WebSocket URL base for API responses.
type WSConfig struct {
	BaseURL string
}

// WSURL returns the signaling WebSocket URL (e.g. wss://host/ws/signal).
func (c *WSConfig) WSURL() string {
	if c == nil || c.BaseURL == "" {
		return "/ws/signal"
	}
	base := c.BaseURL
	if base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return fmt.Sprintf("%s/ws/signal", base)
}
