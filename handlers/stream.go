package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"recipe-gamification/services"
	"recipe-gamification/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// writeEvent writes one SSE frame and flushes it.
func writeEvent(w *bufio.Writer, event string, payload []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}

// streamSummary pushes the user's summary whenever it changes. Reads only,
// so an open stream never mutates state.
func streamSummary(engines *services.EngineFactory, interval time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := currentUserID(c)
		done := c.Context().Done()

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			var last []byte
			push := func() bool {
				payload, err := json.Marshal(engines.ForUser(userID).Summary())
				if err != nil {
					utils.Log().Warn("[SSE] encode failed", zap.String("user_id", userID), zap.Error(err))
					return true
				}
				if bytes.Equal(payload, last) {
					// keepalive comment
					if _, err := w.WriteString(":\n\n"); err != nil {
						return false
					}
					return w.Flush() == nil
				}
				last = payload
				return writeEvent(w, "summary", payload) == nil
			}

			if !push() {
				return
			}
			for {
				select {
				case <-ticker.C:
					if !push() {
						// client disconnected
						return
					}
				case <-done:
					return
				}
			}
		})
		return nil
	}
}
