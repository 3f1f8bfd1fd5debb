package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const HeaderAPIKey = "Api-Key"

// HasValidAPIKey guards server-to-server routes. The caller must present one
// of the configured keys in the Api-Key header.
func HasValidAPIKey(validKeys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		receivedKeys := c.Request.Header[HeaderAPIKey]
		if len(receivedKeys) < 1 {
			slog.Error("request without API key")
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid API key"})
			c.Abort()
			return
		}

		for _, received := range receivedKeys {
			for _, valid := range validKeys {
				if received == valid {
					c.Next()
					return
				}
			}
		}

		slog.Error("request with unknown API key")
		slog.Debug("received API keys", slog.String("receivedKeys", strings.Join(receivedKeys, ",")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid API key"})
		c.Abort()
	}
}
