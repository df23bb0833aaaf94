package utils

import "github.com/gin-gonic/gin"

// GetBaseURL returns the scheme and host the request arrived on, followed by
// the API prefix.
func GetBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + c.Request.Host + "/api"
}
