package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/observability"
)

const internalErrorMessage = "Erreur interne du serveur"

// WriteJSON writes data wrapped in a success envelope
func WriteJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	writeEnvelope(w, status, models.Envelope{Success: true, Message: message, Data: data})
}

// WriteError maps err to its HTTP status and writes a failure envelope.
// Errors without a kind are logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := models.KindOf(err)
	status := kind.HTTPStatus()
	message := err.Error()
	if kind == models.KindUnexpected {
		observability.WithContext(r.Context()).WithError(err).
			WithField("path", r.URL.Path).
			Error("Unhandled error")
		message = internalErrorMessage
	}
	writeEnvelope(w, status, models.Envelope{Success: false, Message: message})
}

// WriteValidationError answers 400 with the field errors in the errors slot
func WriteValidationError(w http.ResponseWriter, details string) {
	writeEnvelope(w, http.StatusBadRequest, models.Envelope{Success: false, Errors: details})
}

func writeEnvelope(w http.ResponseWriter, status int, env models.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// WriteFailure writes an unsuccessful envelope that still carries data
func WriteFailure(w http.ResponseWriter, status int, message string, data interface{}) {
	writeEnvelope(w, status, models.Envelope{Success: false, Message: message, Data: data})
}
