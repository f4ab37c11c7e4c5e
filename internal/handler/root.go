package handler

import (
	"net/http"

	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "Play Learn Spark Gamification API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"gamification": []map[string]string{
				{"method": "POST", "path": "/gamification/users/{userId}/points", "description": "Créditer des points (source, amount, metadata)"},
				{"method": "POST", "path": "/gamification/users/{userId}/experience", "description": "Créditer de l'expérience"},
				{"method": "POST", "path": "/gamification/users/{userId}/points/spend", "description": "Dépenser des points disponibles"},
				{"method": "POST", "path": "/gamification/users/{userId}/streaks/{type}", "description": "Enregistrer un événement d'engagement"},
				{"method": "GET", "path": "/gamification/users/{userId}/profile", "description": "Profil de gamification complet"},
				{"method": "GET", "path": "/gamification/users/{userId}/achievements/{achievementId}/eligibility", "description": "Évaluer l'éligibilité d'un achievement"},
				{"method": "POST", "path": "/gamification/users/{userId}/sweep", "description": "Passer tout le catalogue d'achievements"},
			},
			"leaderboards": []map[string]string{
				{"method": "POST", "path": "/leaderboards/{leaderboardId}/entries/{userId}", "description": "Pousser un score dans un classement"},
				{"method": "GET", "path": "/leaderboards/{leaderboardId}", "description": "Instantané courant d'un classement"},
				{"method": "GET", "path": "/leaderboards/{leaderboardId}/live", "description": "Flux websocket des instantanés"},
			},
			"catalog": []map[string]string{
				{"method": "GET", "path": "/catalog/achievements", "description": "Définitions d'achievements (hors secrets)"},
				{"method": "GET", "path": "/catalog/leaderboards", "description": "Définitions de classements"},
			},
			"health": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check de l'API"},
			},
		},
		"documentation": map[string]string{
			"description": "API REST du moteur de progression et de classement Play Learn Spark",
		},
	}

	utils.Success(w, routes)
}
