package transport

import (
	"encoding/json"
	"errors"

	"github.com/fastygo/taskboard/domain"
)

// Envelope wraps every view server response.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
}

// FieldError reports which form field failed local validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewSuccess(data interface{}) Envelope {
	return Envelope{Status: "success", Data: data}
}

func NewError(code domain.ErrorCode, err interface{}) Envelope {
	return Envelope{Status: "error", Code: string(code), Error: err}
}

// NewErrorFrom classifies err and keeps field details for validation failures.
func NewErrorFrom(err error) Envelope {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return NewError(domain.ErrCodeInvalid, FieldError{Field: vErr.Field, Message: vErr.Message})
	}
	if msg, ok := domain.ServerMessage(err); ok {
		return NewError(domain.CodeOf(err), msg)
	}
	return NewError(domain.CodeOf(err), err.Error())
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
