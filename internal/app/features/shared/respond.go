// Package shared holds response helpers used by every feature package.
package shared

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status. Encoding failures are silently
// dropped; the status line is already on the wire by then.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a success envelope around data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

// Created writes a 201 success envelope around data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, map[string]any{"success": true, "data": data})
}

// Message writes a success envelope with only a message.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}
