package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verityqa/verity-backend/internal/pkg/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondAppError translates the error taxonomy into status codes;
// anything uncategorized is a 500.
func RespondAppError(c *gin.Context, err error) {
	switch {
	case apperr.IsNotFound(err):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case apperr.IsConflict(err):
		RespondError(c, http.StatusConflict, "conflict", err)
	case apperr.IsValidation(err):
		RespondError(c, http.StatusUnprocessableEntity, "validation_failed", err)
	case apperr.IsUnauthorized(err):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
