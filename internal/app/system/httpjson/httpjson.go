// internal/app/system/httpjson/httpjson.go

// Package httpjson holds the JSON request/response conventions shared by
// every route handler: one error shape, one decoder, one writer.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies. Task and project payloads are small;
// anything larger is a client error.
const MaxBodyBytes = 1 << 20

// errorResponse is the single error shape crossing the HTTP boundary.
type errorResponse struct {
	Error string `json:"error"`
}

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the standard JSON error shape.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, errorResponse{Error: msg})
}

// Decode reads the request body into dst. It enforces MaxBodyBytes and
// rejects trailing garbage after the JSON document.
func Decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body: unexpected trailing data")
	}
	return nil
}

// DecodeRaw reads the request body as a raw JSON document for schema
// validation before field-level decoding.
func DecodeRaw(r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}
