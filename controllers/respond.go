package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"collabmatch_server/services"
)

// respondJSON writes a JSON payload with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondError writes the error envelope with a stable machine-readable kind
func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   kind,
		"message": message,
	})
}

// respondServiceError maps service errors to HTTP responses. Internal error
// text never reaches the caller; fallbackMessage is what they see instead.
func respondServiceError(w http.ResponseWriter, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, services.ErrInvalidPair):
		respondError(w, http.StatusBadRequest, "invalid_pair", "You cannot act on yourself")
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, services.ErrNotAParticipant):
		respondError(w, http.StatusForbidden, "not_a_participant", "You are not part of this match")
	case errors.Is(err, services.ErrNotMutual):
		respondError(w, http.StatusBadRequest, "not_mutual", "Conversation requires a mutual match")
	case errors.Is(err, services.ErrInvalidRating):
		respondError(w, http.StatusBadRequest, "invalid_rating", "Rating must be between 1 and 5")
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", fallbackMessage)
	}
}
