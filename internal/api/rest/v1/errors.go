package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// statusForError maps engine and keyring errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, keys.ErrKeyNotFound):
		return http.StatusNotFound
	case errors.Is(err, crypto.ErrNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, crypto.ErrSyntax), errors.Is(err, crypto.ErrData):
		return http.StatusBadRequest
	case errors.Is(err, crypto.ErrOperation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, crypto.ErrInvalidAccess):
		return http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(ctx *gin.Context, err error) {
	ctx.JSON(statusForError(err), ErrorResponse{
		Message: err.Error(),
		Kind:    crypto.KindOf(err),
	})
}

func abortWithMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, ErrorResponse{Message: message})
}
