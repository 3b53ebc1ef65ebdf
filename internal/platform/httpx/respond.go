// Package httpx provides the JSON envelope used by every API response.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

func init() {
	// Money is rendered as JSON numbers, matching what the dashboard front-end parses.
	decimal.MarshalJSONWithoutQuotes = true
}

// Envelope wraps successful payloads.
type Envelope struct {
	Status  int  `json:"status"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope wraps failures.
type ErrorEnvelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success wraps data in the success envelope.
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{Status: status, Success: true, Data: data})
}

// OK sends a 200 success envelope.
func OK(w http.ResponseWriter, data any) {
	Success(w, http.StatusOK, data)
}

// Created sends a 201 success envelope.
func Created(w http.ResponseWriter, data any) {
	Success(w, http.StatusCreated, data)
}

// Fail sends the error envelope.
func Fail(w http.ResponseWriter, status int, message string, fields map[string]string) {
	JSON(w, status, ErrorEnvelope{Status: status, Success: false, Message: message, Errors: fields})
}
