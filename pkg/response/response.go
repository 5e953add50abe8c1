package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

// The wire contract is a flat envelope: {"success": bool, "message":
// string, ...payload}. Payload keys vary per endpoint (data, user,
// profile, school, classroom), so helpers accept a gin.H that is merged
// into the envelope.

// JSON sends a success envelope with the given status and payload keys.
func JSON(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, body)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, message string, payload gin.H) {
	JSON(c, http.StatusOK, message, payload)
}

// Created responds with HTTP 201.
func Created(c *gin.Context, message string, payload gin.H) {
	JSON(c, http.StatusCreated, message, payload)
}

// Error converts any error to the {success:false, message} envelope
// with the status carried by the typed error. Internal detail never
// reaches the caller.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{"success": false, "message": appErr.Message})
}
