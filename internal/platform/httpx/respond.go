package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK sends a success envelope with HTTP 200.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, NewSuccess(data))
}

// Created sends a success envelope with HTTP 201.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, NewSuccess(data))
}

// Fail sends an error envelope with the status derived from the type.
func Fail(w http.ResponseWriter, typ ErrorType, message string, details map[string]any) {
	JSON(w, typ.Status(), NewError(typ, message, details))
}

// FailEnvelope sends a prebuilt error envelope.
func FailEnvelope(w http.ResponseWriter, env ErrorEnvelope) {
	JSON(w, env.Error.Type.Status(), env)
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
