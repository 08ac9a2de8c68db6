package common

import (
	"encoding/json"
	"net/http"
)

// Payload is the response body shape shared by every endpoint: a success
// flag, a human-readable message, and any endpoint-specific fields
// alongside.
type Payload map[string]interface{}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	respond(w, code, Payload{"success": false, "message": message})
}

func RespondWithJSON(w http.ResponseWriter, code int, message string, payload Payload) {
	body := Payload{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	respond(w, code, body)
}

func respond(w http.ResponseWriter, code int, payload Payload) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "message": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
