package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// ApiResponse is the envelope every endpoint answers with.
type ApiResponse struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
}

// ApiError is an error with an HTTP status. Controllers return it and the
// Handle adapter turns it into the envelope.
type ApiError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *ApiError) Error() string { return e.Message }

func NewApiError(statusCode int, message string) *ApiError {
	return &ApiError{StatusCode: statusCode, Message: message}
}

// HandlerFunc is an http.HandlerFunc that reports failure instead of writing
// it out itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle funnels every returned error through one place, normalizing unknown
// errors to a generic 500.
func Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		apiErr, ok := err.(*ApiError)
		if !ok {
			log.Printf("Unhandled error on %s %s: %v", r.Method, r.URL.Path, err)
			apiErr = &ApiError{StatusCode: http.StatusInternalServerError, Message: "Internal Server Error"}
		}
		WriteError(w, apiErr)
	}
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ApiResponse{
		Success:    statusCode < 400,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	}); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, apiErr *ApiError) {
	errs := apiErr.Errors
	if errs == nil {
		errs = []string{}
	}
	// Error envelopes always carry the errors list, even when empty.
	body := struct {
		Success    bool     `json:"success"`
		StatusCode int      `json:"statusCode"`
		Message    string   `json:"message"`
		Errors     []string `json:"errors"`
	}{
		Success:    false,
		StatusCode: apiErr.StatusCode,
		Message:    apiErr.Message,
		Errors:     errs,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
