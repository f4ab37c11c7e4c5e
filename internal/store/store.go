package store

import (
	"context"
	"errors"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

var (
	// ErrNotFound : l'agrégat demandé n'existe pas
	ErrNotFound = errors.New("store: aggregate not found")
	// ErrVersionConflict : la version attendue ne correspond plus, l'appelant
	// doit recharger puis rejouer sa mutation
	ErrVersionConflict = errors.New("store: version conflict")
)

// ProfileStore charge et sauvegarde les profils gamification par identifiant
// utilisateur, avec verrouillage optimiste par version. Une version attendue
// de 0 signifie une insertion.
type ProfileStore interface {
	LoadProfile(ctx context.Context, userID string) (*model.Profile, int64, error)
	SaveProfile(ctx context.Context, p *model.Profile, expectedVersion int64) error
}

// LeaderboardStore charge et sauvegarde les agrégats de classement entiers :
// le recalcul des rangs est un read-modify-write sur toutes les entrées.
type LeaderboardStore interface {
	LoadLeaderboard(ctx context.Context, id string) (*model.Leaderboard, int64, error)
	SaveLeaderboard(ctx context.Context, lb *model.Leaderboard, expectedVersion int64) error
}
