package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/itemhub/item-service/internal/domain"
	"github.com/itemhub/item-service/internal/processor"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// mapError translates domain sentinel errors to HTTP status codes.
// All mapping lives here so individual handlers stay concise.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidEmail):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrPoolStopped):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// mapProcessError reports a failed bulk run together with the ids of the
// items whose unit failed, without leaking store error text.
func mapProcessError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrPoolStopped) {
		mapError(w, err)
		return
	}

	failed := []int64{}
	for _, ue := range processor.FailedUnits(err) {
		failed = append(failed, ue.ItemID)
	}
	msg := "processing failed"
	if errors.Is(err, domain.ErrProcessingCancelled) {
		msg = domain.ErrProcessingCancelled.Error()
	}
	respondJSON(w, http.StatusInternalServerError, map[string]any{
		"error":        msg,
		"failed_items": failed,
	})
}
