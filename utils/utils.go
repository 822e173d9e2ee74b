package utils

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SendJSONError sends a standardized JSON error response and logs the internal error.
// For 5xx errors, it sends a generic public message while logging the actual internalError.
// For 4xx errors, the publicMsg is shown to the client, and internalError (if provided) is logged.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error) {
	if internalError != nil {
		log.Printf("ERROR: Handler error: status_code=%d, public_message='%s', internal_error='%v', path='%s'",
			statusCode, publicMsg, internalError, c.Request.URL.Path)
	} else {
		log.Printf("INFO: Handler response: status_code=%d, public_message='%s', path='%s'",
			statusCode, publicMsg, c.Request.URL.Path)
	}

	if statusCode >= http.StatusInternalServerError {
		if publicMsg == "" || (internalError != nil && publicMsg == internalError.Error()) {
			publicMsg = "An unexpected error occurred. Please try again later."
		}
	}

	c.AbortWithStatusJSON(statusCode, gin.H{"error": publicMsg})
}

// NewGuestID generates a client-side identifier for an anonymous visitor.
// It is a display handle only; anonymous usage is never persisted.
func NewGuestID() string {
	return "guest_" + uuid.NewString()
}
