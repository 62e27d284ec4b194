package middleware

import "github.com/gin-gonic/gin"

// abort writes the standard error body and stops the chain.
func abort(c *gin.Context, status int, code, message string) {
	body := gin.H{"message": message, "code": code}
	if rid := GetRequestID(c); rid != "" {
		body["request_id"] = rid
	}
	c.AbortWithStatusJSON(status, body)
}
