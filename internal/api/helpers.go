package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/chesscoach/internal/errors"
	"github.com/vytor/chesscoach/internal/logger"
	"github.com/vytor/chesscoach/internal/models"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeAnalyzeRequest parses and shape-checks the shared request body of the
// analyze and report endpoints.
func decodeAnalyzeRequest(r *http.Request) (models.AnalyzeRequest, error) {
	var req models.AnalyzeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return models.AnalyzeRequest{}, errors.NewBadRequestError("invalid request body: " + err.Error())
	}
	return req, nil
}
