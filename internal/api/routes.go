package api

import (
	"net/http"

	"github.com/fatih/color"
	"github.com/gorilla/mux"

	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/handler"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/logger"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/middleware"
)

func SetupRouter(h *handler.Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.LoggerMiddleware)

	// Root - API documentation
	r.HandleFunc("/", h.RootHandler).Methods(http.MethodGet)

	// Gamification - points, expérience, streaks
	r.HandleFunc("/gamification/users/{userId}/points", h.AwardPoints).Methods(http.MethodPost)
	r.HandleFunc("/gamification/users/{userId}/points/spend", h.SpendPoints).Methods(http.MethodPost)
	r.HandleFunc("/gamification/users/{userId}/experience", h.AwardExperience).Methods(http.MethodPost)
	r.HandleFunc("/gamification/users/{userId}/streaks/{type}", h.UpdateStreak).Methods(http.MethodPost)

	// Gamification - lecture du profil et achievements
	r.HandleFunc("/gamification/users/{userId}/profile", h.GetProfile).Methods(http.MethodGet)
	r.HandleFunc("/gamification/users/{userId}/achievements/{achievementId}/eligibility", h.CheckEligibility).Methods(http.MethodGet)
	r.HandleFunc("/gamification/users/{userId}/sweep", h.RunSweep).Methods(http.MethodPost)

	// Leaderboards
	r.HandleFunc("/leaderboards/{leaderboardId}/entries/{userId}", h.UpdateLeaderboardEntry).Methods(http.MethodPost)
	r.HandleFunc("/leaderboards/{leaderboardId}/live", h.LiveLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/leaderboards/{leaderboardId}", h.GetLeaderboard).Methods(http.MethodGet)

	// Catalogue
	r.HandleFunc("/catalog/achievements", h.ListAchievements).Methods(http.MethodGet)
	r.HandleFunc("/catalog/leaderboards", h.ListLeaderboards).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warning("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
