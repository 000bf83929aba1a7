package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courtsidepicks/bracket-sync/models"
	"github.com/courtsidepicks/bracket-sync/services"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

type importRequest struct {
	Games          []models.RawGame `json:"games"`
	UpdateExisting bool             `json:"update_existing"`
	MatchThreshold float64          `json:"match_threshold"`
	DryRun         bool             `json:"dry_run"`
}

// ImportGames runs the reconciler over a posted batch of raw games.
// POST /tournaments/{tournamentID}/games/import
func (h *ImportHandler) ImportGames(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := strconv.Atoi(chi.URLParam(r, "tournamentID"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req importRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.importService.ImportGames(r.Context(), tournamentID, req.Games, models.ImportOptions{
		UpdateExisting: req.UpdateExisting,
		MatchThreshold: req.MatchThreshold,
		DryRun:         req.DryRun,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusOK
	if !result.Success() {
		status = http.StatusMultiStatus
	}
	if err := writeJSON(w, status, jsonResponse{"result": result, "success": result.Success()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SuggestTeams scores catalog teams against an external record for manual
// review of unmatched teams.
// GET /teams/suggestions?name=...&abbreviation=...&external_id=...&source=...&limit=N
func (h *ImportHandler) SuggestTeams(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	external := models.ExternalTeamRecord{
		ExternalID:   query.Get("external_id"),
		DisplayName:  query.Get("name"),
		Abbreviation: query.Get("abbreviation"),
	}
	if external.DisplayName == "" {
		errorResponse(w, r, http.StatusBadRequest, "name query parameter is required")
		return
	}

	source := query.Get("source")
	if source == "" {
		source = "espn"
	}
	limit := 5
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	suggestions, err := h.importService.SuggestTeams(r.Context(), external, source, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"suggestions": suggestions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
