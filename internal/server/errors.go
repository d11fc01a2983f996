package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	invoiceimportdomain "github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
	quoteemaildomain "github.com/smallbiznis/gestionale/internal/quoteemail/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

// errorRecord points at the draft record that stopped an import.
type errorRecord struct {
	ID         string   `json:"id,omitempty"`
	Resource   string   `json:"resource,omitempty"`
	InvoiceRef *string  `json:"invoiceRef,omitempty"`
	Missing    []string `json:"missing,omitempty"`
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Record  *errorRecord      `json:"record,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{{Field: field, Code: code, Message: message}},
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	return payload.Type, strconv.Itoa(status)
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var confirmErr *invoiceimportdomain.ConfirmError
	if errors.As(err, &confirmErr) {
		return mapConfirmError(confirmErr)
	}

	var sendErr *quoteemaildomain.SendNotAllowedError
	if errors.As(err, &sendErr) {
		payload := errorPayload{Type: "send_not_allowed", Message: sendErr.Reason}
		for _, field := range sendErr.Missing {
			payload.Errors = append(payload.Errors, ValidationError{Field: field, Code: "required", Message: field + " is required"})
		}
		return http.StatusUnprocessableEntity, payload
	}

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, crmdomain.ErrInvalidID),
		errors.Is(err, quoteemaildomain.ErrInvalidMode):
		code := validationCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  []ValidationError{{Field: validationField(err), Code: code, Message: "invalid value"}},
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, crmdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, quoteemaildomain.ErrNoRecipient):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "send_not_allowed",
			Message: "Il cliente non ha un indirizzo email.",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func mapConfirmError(err *invoiceimportdomain.ConfirmError) (int, errorPayload) {
	payload := errorPayload{Message: err.Message}
	if err.RecordID != "" {
		payload.Record = &errorRecord{
			ID:         err.RecordID,
			Resource:   string(err.Resource),
			InvoiceRef: err.InvoiceRef,
			Missing:    err.Missing,
		}
	}

	switch {
	case errors.Is(err, invoiceimportdomain.ErrDuplicate):
		payload.Type = "duplicate"
		return http.StatusConflict, payload
	case errors.Is(err, invoiceimportdomain.ErrConfirmInProgress):
		payload.Type = "conflict"
		return http.StatusConflict, payload
	case errors.Is(err, invoiceimportdomain.ErrNotConfirmable):
		payload.Type = "not_confirmable"
		return http.StatusBadRequest, payload
	default:
		payload.Type = "invalid_payload"
		return http.StatusBadRequest, payload
	}
}

func validationCode(err error) string {
	switch {
	case errors.Is(err, crmdomain.ErrInvalidID):
		return crmdomain.ErrInvalidID.Error()
	case errors.Is(err, quoteemaildomain.ErrInvalidMode):
		return quoteemaildomain.ErrInvalidMode.Error()
	default:
		return "invalid_request"
	}
}

func validationField(err error) string {
	switch {
	case errors.Is(err, crmdomain.ErrInvalidID):
		return "id"
	case errors.Is(err, quoteemaildomain.ErrInvalidMode):
		return "mode"
	default:
		return "request"
	}
}
