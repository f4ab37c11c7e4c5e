package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/utils"
)

type updateEntryRequest struct {
	Score            float64            `json:"score"`
	SecondaryMetrics map[string]float64 `json:"secondaryMetrics,omitempty"`
}

// UpdateLeaderboardEntry pousse un score dans un classement
func (h *Handler) UpdateLeaderboardEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req updateEntryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.Engine.UpdateLeaderboardEntry(r.Context(), vars["leaderboardId"], vars["userId"], req.Score, req.SecondaryMetrics)
	if err != nil {
		fail(w, err)
		return
	}
	utils.Success(w, result)
}

// GetLeaderboard retourne l'instantané courant d'un classement
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaderboardID := mux.Vars(r)["leaderboardId"]

	lb, err := h.Engine.GetLeaderboard(r.Context(), leaderboardID)
	if err != nil {
		fail(w, err)
		return
	}
	utils.Success(w, lb)
}

// LiveLeaderboard abonne le client websocket aux instantanés d'un classement
func (h *Handler) LiveLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaderboardID := mux.Vars(r)["leaderboardId"]

	if _, ok := h.Catalog.Leaderboard(leaderboardID); !ok {
		utils.Error(w, http.StatusNotFound, "leaderboard not in catalog")
		return
	}
	h.Hub.Serve(w, r, leaderboardID)
}
