package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tendant/simple-tenancy/pkg/domain"
)

// ErrBodyTooLarge is returned by DecodeJSON when the body exceeds the size limit.
var ErrBodyTooLarge = errors.New("request body too large")

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes an error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// FieldError writes an error response naming the offending field.
func FieldError(w http.ResponseWriter, status int, field, message string) {
	JSON(w, status, ErrorResponse{Error: message, Field: field})
}

// NoContent writes an empty response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes the request body into v.
// Unknown fields are ignored. Malformed JSON and wrongly typed fields are
// reported as *domain.ValidationError; an oversized body as ErrBodyTooLarge.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrBodyTooLarge
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &domain.ValidationError{Field: typeErr.Field, Message: typeErr.Field + " has the wrong type"}
	}
	return &domain.ValidationError{Field: "body", Message: "invalid request body"}
}

// DecodeError writes the response for an error returned by DecodeJSON.
func DecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		Error(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		FieldError(w, http.StatusUnprocessableEntity, ve.Field, ve.Message)
		return
	}
	FieldError(w, http.StatusUnprocessableEntity, "body", "invalid request body")
}
