package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// Postgres persiste les agrégats en documents JSONB, un document par
// identifiant, avec une colonne version pour le verrouillage optimiste.
// Le moteur ne fait que du load/save par id : pas de requêtes sur le contenu.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres crée le store document au-dessus d'un pool pgx
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema crée les tables d'agrégats si elles n'existent pas
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS gamification_profiles (
			user_id    TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			version    BIGINT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS gamification_leaderboards (
			id         TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			version    BIGINT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("could not ensure gamification schema: %w", err)
	}
	return nil
}

// LoadProfile implémente ProfileStore
func (s *Postgres) LoadProfile(ctx context.Context, userID string) (*model.Profile, int64, error) {
	var p model.Profile
	version, err := s.loadDoc(ctx,
		`SELECT doc, version FROM gamification_profiles WHERE user_id = $1`, userID, &p)
	if err != nil {
		return nil, 0, err
	}
	return &p, version, nil
}

// SaveProfile implémente ProfileStore
func (s *Postgres) SaveProfile(ctx context.Context, p *model.Profile, expectedVersion int64) error {
	return s.saveDoc(ctx, "gamification_profiles", "user_id", p.UserID, p, expectedVersion)
}

// LoadLeaderboard implémente LeaderboardStore
func (s *Postgres) LoadLeaderboard(ctx context.Context, id string) (*model.Leaderboard, int64, error) {
	var lb model.Leaderboard
	version, err := s.loadDoc(ctx,
		`SELECT doc, version FROM gamification_leaderboards WHERE id = $1`, id, &lb)
	if err != nil {
		return nil, 0, err
	}
	return &lb, version, nil
}

// SaveLeaderboard implémente LeaderboardStore
func (s *Postgres) SaveLeaderboard(ctx context.Context, lb *model.Leaderboard, expectedVersion int64) error {
	return s.saveDoc(ctx, "gamification_leaderboards", "id", lb.ID, lb, expectedVersion)
}

func (s *Postgres) loadDoc(ctx context.Context, query, id string, dest interface{}) (int64, error) {
	var raw []byte
	var version int64

	err := s.pool.QueryRow(ctx, query, id).Scan(&raw, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("could not load document %s: %w", id, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return 0, fmt.Errorf("could not decode document %s: %w", id, err)
	}
	return version, nil
}

// saveDoc insère (version attendue 0) ou remplace le document si la version
// stockée correspond encore. Toute course perdue remonte ErrVersionConflict.
func (s *Postgres) saveDoc(ctx context.Context, table, idColumn, id string, doc interface{}, expectedVersion int64) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("could not encode document %s: %w", id, err)
	}

	if expectedVersion == 0 {
		tag, err := s.pool.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (%s, doc, version) VALUES ($1, $2, 1)
				ON CONFLICT (%s) DO NOTHING`, table, idColumn, idColumn),
			id, data)
		if err != nil {
			return fmt.Errorf("could not insert document %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET doc = $1, version = version + 1, updated_at = now()
			WHERE %s = $2 AND version = $3`, table, idColumn),
		data, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("could not update document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}
