// Package handler expose le moteur de gamification sur HTTP. Les handlers
// sont de la glu fine : décodage, appel du moteur, enveloppe APIResponse.
package handler

import (
	"errors"
	"net/http"

	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/catalog"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/gamification"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/store"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/utils"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/ws"
)

// Handler porte les dépendances injectées de la couche HTTP
type Handler struct {
	Engine  *gamification.Engine
	Catalog *catalog.Catalog
	Hub     *ws.Hub
}

func New(engine *gamification.Engine, cat *catalog.Catalog, hub *ws.Hub) *Handler {
	return &Handler{Engine: engine, Catalog: cat, Hub: hub}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}

// fail traduit la taxonomie d'erreurs du moteur en status HTTP
func fail(w http.ResponseWriter, err error) {
	var (
		validation   *gamification.ValidationError
		insufficient *gamification.InsufficientResourceError
		definition   *gamification.DefinitionError
		conflict     *gamification.ConcurrencyConflictError
	)
	switch {
	case errors.As(err, &validation):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &insufficient):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.As(err, &definition):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, store.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
