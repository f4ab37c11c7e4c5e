package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/utils"
)

type awardPointsRequest struct {
	Source   string            `json:"source"`
	Amount   int               `json:"amount"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type awardExperienceRequest struct {
	Amount int `json:"amount"`
}

type spendPointsRequest struct {
	Amount int `json:"amount"`
}

// AwardPoints crédite des points à un utilisateur depuis une source
func (h *Handler) AwardPoints(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req awardPointsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.Engine.AwardPoints(r.Context(), userID, req.Source, req.Amount, req.Metadata)
	if err != nil {
		fail(w, err)
		return
	}
	utils.Success(w, result)
}

// AwardExperience crédite de l'expérience seule
func (h *Handler) AwardExperience(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req awardExperienceRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.Engine.AwardExperience(r.Context(), userID, req.Amount)
	if err != nil {
		fail(w, err)
		return
	}
	utils.Success(w, result)
}

// SpendPoints débite le solde de points disponible
func (h *Handler) SpendPoints(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req spendPointsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	profile, err := h.Engine.SpendPoints(r.Context(), userID, req.Amount)
	if err != nil {
		fail(w, err)
		return
	}
	utils.Success(w, profile)
}

// UpdateStreak enregistre un événement d'engagement pour un type de streak
func (h *Handler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	result, err := h.Engine.UpdateStreak(r.Context(), vars["userId"], vars["type"])
	if err != nil {
		fail(w, err)
		return
	}
	utils.Success(w, result)
}

// GetProfile retourne le profil de gamification complet d'un utilisateur
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := h.Engine.GetProfile(r.Context(), userID)
	if err != nil {
		fail(w, err)
		return
	}
	utils.Success(w, profile)
}

// CheckEligibility évalue un achievement pour un utilisateur, sans rien écrire
func (h *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	result, err := h.Engine.CheckEligibility(r.Context(), vars["userId"], vars["achievementId"])
	if err != nil {
		fail(w, err)
		return
	}
	utils.Success(w, result)
}

// RunSweep passe tout le catalogue d'achievements pour un utilisateur
func (h *Handler) RunSweep(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	result, err := h.Engine.RunAchievementSweep(r.Context(), userID)
	if err != nil {
		fail(w, err)
		return
	}
	utils.Success(w, result)
}
