package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courtsidepicks/bracket-sync/middleware"
	"github.com/courtsidepicks/bracket-sync/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

// GetBracket returns the assembled bracket for a tournament. When the request
// carries a valid token, the caller's picks are propagated into future slots;
// anonymous viewers get placeholders as TBD.
// GET /tournaments/{tournamentID}/bracket
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := strconv.Atoi(chi.URLParam(r, "tournamentID"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	bracket, err := h.bracketService.GetBracket(r.Context(), tournamentID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
