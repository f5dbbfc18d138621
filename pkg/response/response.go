package response

import (
	"github.com/gin-gonic/gin"
)

// The wire envelopes are part of the public API contract consumed by the web
// client; handlers must not deviate from these shapes.

type userEnvelope struct {
	Success bool `json:"success"`
	User    any  `json:"user"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Message string `json:"message"`
}

type missingFieldsEnvelope struct {
	Message       string   `json:"message"`
	MissingFields []string `json:"missingFields"`
}

// User writes a success envelope carrying the user record.
func User(c *gin.Context, status int, user any) {
	c.JSON(status, userEnvelope{Success: true, User: user})
}

// Message writes a success envelope with a human-readable message.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, messageEnvelope{Success: true, Message: message})
}

// Error writes a failure envelope. The message is client-safe; internal detail
// belongs in logs only.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, errorEnvelope{Message: message})
}

// MissingFields writes a validation failure naming exactly the absent fields.
func MissingFields(c *gin.Context, status int, message string, fields []string) {
	c.JSON(status, missingFieldsEnvelope{Message: message, MissingFields: fields})
}
