package endpoints

import (
	"encoding/json"
	"net/http"
)

// APIError is the error body of every failed API response
type APIError struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

var errorNames = map[int]string{
	http.StatusForbidden:           "ForbiddenError",
	http.StatusNotFound:            "NotFoundError",
	http.StatusInternalServerError: "InternalServerError",
	http.StatusServiceUnavailable:  "ServiceUnavailableError",
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	name, ok := errorNames[code]
	if !ok {
		name = "ApplicationError"
	}
	respondWithJSON(w, code, map[string]interface{}{
		"error": APIError{Status: code, Name: name, Message: message},
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
