package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundStatus(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func ConflictStatus(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func ForbiddenStatus(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// WriteError maps a business error to its HTTP status. Unknown errors are
// reported as internal without leaking detail.
func WriteError(c *gin.Context, err error) {
	var be Error
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	switch be.Kind {
	case KindValidation:
		BadRequest(c, be.Code, be.Message)
	case KindNotFound:
		NotFoundStatus(c, be.Code, be.Message)
	case KindConflict:
		ConflictStatus(c, be.Code, be.Message)
	case KindAuthorization:
		ForbiddenStatus(c, be.Code, be.Message)
	default:
		Internal(c, be.Code, "Unexpected error.")
	}
}
