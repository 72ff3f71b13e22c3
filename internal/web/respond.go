// Package web holds small helpers shared by the HTTP handlers.
package web

import "github.com/gin-gonic/gin"

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": ErrorBody{Code: code, Message: message}})
}

func ErrorWithDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, gin.H{"error": ErrorBody{Code: code, Message: message, Details: details}})
}

// ActorID extracts the acting user for ledger attribution.
func ActorID(c *gin.Context) string {
	return c.GetHeader("X-Actor-ID")
}
