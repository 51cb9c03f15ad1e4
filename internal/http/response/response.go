package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Envelope is the wire shape of every response, success or failure.
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func RespondOK(c *gin.Context, payload any) {
	respond(c, http.StatusOK, payload, "")
}

func RespondOKMessage(c *gin.Context, payload any, message string) {
	respond(c, http.StatusOK, payload, message)
}

func RespondCreated(c *gin.Context, payload any) {
	respond(c, http.StatusCreated, payload, "")
}

// RespondMultiStatus reports a bulk operation where some items
// succeeded and some did not.
func RespondMultiStatus(c *gin.Context, payload any, message string) {
	respond(c, http.StatusMultiStatus, payload, message)
}

func respond(c *gin.Context, status int, payload any, message string) {
	c.JSON(status, Envelope{
		Success:   true,
		Data:      payload,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, Envelope{
		Success: false,
		Error: &APIError{
			Message: msg,
			Code:    code,
		},
		Timestamp: time.Now().UTC(),
	})
}

// RespondDomainError translates a service error into the status the
// error code implies.
func RespondDomainError(c *gin.Context, err error) {
	code := types.CodeOf(err)
	if code == "" {
		code = types.CodeInternal
	}
	status := http.StatusInternalServerError
	switch code {
	case types.CodeValidation:
		status = http.StatusBadRequest
	case types.CodeNotFound:
		status = http.StatusNotFound
	case types.CodeConflict:
		status = http.StatusConflict
	}
	msg := err.Error()
	var de *types.Error
	if errors.As(err, &de) && de.Message != "" {
		msg = de.Message
	}
	c.JSON(status, Envelope{
		Success: false,
		Error: &APIError{
			Message: msg,
			Code:    string(code),
		},
		Timestamp: time.Now().UTC(),
	})
}
