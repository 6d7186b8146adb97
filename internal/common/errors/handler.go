// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// ErrorResponse is the JSON body written for failed requests. detail mirrors
// the plain message clients of the demo frontend already read.
type ErrorResponse struct {
	Detail string         `json:"detail"`
	Error  *StandardError `json:"error"`
}

// ErrorHandler renders errors as JSON responses.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HTTPStatus maps an error code to a response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeValidationFailed, ErrCodeUnknownVendor:
		return http.StatusBadRequest
	case ErrCodeBusinessNotFound, ErrCodeIndexNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateBusiness:
		return http.StatusConflict
	case ErrCodeQueryTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeVendorCallFailed, ErrCodeSearchQueryFailed, ErrCodeNotificationSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Handle writes err to w and logs it. Client errors log at warn level.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := AsStandard(err)
	status := HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if h.logger != nil {
		if status >= http.StatusInternalServerError {
			h.logger.Error("request failed", fields)
		} else {
			h.logger.Warn("request rejected", fields)
		}
	}

	WriteError(w, status, stdErr)
}

// WriteError writes a StandardError with an explicit status.
func WriteError(w http.ResponseWriter, status int, stdErr *StandardError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Detail: stdErr.Message,
		Error:  stdErr,
	})
}
