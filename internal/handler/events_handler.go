package handler

import (
	"io"

	"vivah/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

// StreamEvents godoc
// @Summary      Event stream
// @Description  Server-sent events for the authenticated account: "message" on incoming chat messages, "interest" on interest activity.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string  "SSE stream"
// @Failure      401  {object}  ErrorResponse
// @Router       /events [get]
func StreamEvents(c *gin.Context) {
	accountID, exists := c.Get("accountID")
	if !exists {
		c.AbortWithStatus(401)
		return
	}
	id := accountID.(uint)

	client := make(hub.Client, 8)
	deps.Hub.Subscribe(id, client)
	defer deps.Hub.Unsubscribe(id, client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(message))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
