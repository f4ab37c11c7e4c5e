package handler

import (
	"net/http"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/utils"
)

// ListAchievements retourne les définitions d'achievements du catalogue.
// Les achievements secrets sont masqués de la liste publique.
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	defs := h.Catalog.Achievements()

	visible := make([]model.AchievementDefinition, 0, len(defs))
	for _, def := range defs {
		if def.Visibility.Type == model.VisibilitySecret {
			continue
		}
		visible = append(visible, def)
	}
	utils.Success(w, visible)
}

// ListLeaderboards retourne les définitions de classements du catalogue
func (h *Handler) ListLeaderboards(w http.ResponseWriter, r *http.Request) {
	utils.Success(w, h.Catalog.Leaderboards())
}
