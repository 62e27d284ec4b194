package handlers

import (
	"errors"
	"net/http"

	"tiketbus/internal/domain"
	"tiketbus/internal/http/middleware"
	"tiketbus/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message   string              `json:"message"`
	Code      string              `json:"code"`
	Details   any                 `json:"details,omitempty"`
	Errors    []domain.FieldError `json:"errors,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any, fields []domain.FieldError) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Message:   message,
		Code:      code,
		Details:   details,
		Errors:    fields,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var (
		ve   domain.ValidationError
		dup  domain.DuplicateError
		conf domain.ConflictError
		ie   domain.InternalError
	)
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, ve.Code(), ve.Error(), nil, ve.FieldErrors())
	case domain.IsInvalidID(err):
		respondError(c, http.StatusBadRequest, "invalid_id", err.Error(), nil, nil)
	case errors.As(err, &dup):
		respondError(c, http.StatusBadRequest, dup.Code(), dup.Error(), nil, []domain.FieldError{{Field: dup.Field, Message: dup.Error()}})
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil, nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil, nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil, nil)
	case errors.As(err, &conf):
		msg := conf.Msg
		if msg == "" {
			msg = conf.Error()
		}
		respondError(c, http.StatusConflict, conf.Code(), msg, nil, nil)
	case errors.As(err, &ie):
		utils.LogError(middleware.GetRequestID(c), "http", c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "internal_error", ie.Error(), nullableDetail(ie.Detail()), nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan", nullableDetail(err.Error()), nil)
	}
}

func nullableDetail(s string) any {
	if s == "" {
		return nil
	}
	return s
}
