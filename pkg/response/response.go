package response

import (
	"github.com/gin-gonic/gin"
)

// Error writes the JSON error envelope used across the API. Bodies stay
// generic; internal detail belongs in logs, not responses. The request id
// set by middleware is echoed back so clients can correlate reports.
func Error(c *gin.Context, status int, message string, details any) {
	body := gin.H{"message": message}
	if details != nil {
		body["details"] = details
	}
	if rid := c.GetString("request_id"); rid != "" {
		body["request_id"] = rid
	}
	c.JSON(status, body)
}
