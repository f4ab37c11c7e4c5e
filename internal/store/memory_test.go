package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

func TestMemoryProfileRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	_, _, err := m.LoadProfile(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)

	p := model.NewProfile("user-1", now, 100)
	p.Points.Total = 42
	require.NoError(t, m.SaveProfile(ctx, p, 0))

	loaded, version, err := m.LoadProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, 42, loaded.Points.Total)
}

func TestMemoryVersionSemantics(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p := model.NewProfile("user-1", now, 100)

	// version attendue 0 : insertion seulement
	require.NoError(t, m.SaveProfile(ctx, p, 0))
	require.ErrorIs(t, m.SaveProfile(ctx, p, 0), ErrVersionConflict)

	// mise à jour avec la bonne version : la version avance
	require.NoError(t, m.SaveProfile(ctx, p, 1))
	_, version, err := m.LoadProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	// version périmée : conflit
	require.ErrorIs(t, m.SaveProfile(ctx, p, 1), ErrVersionConflict)
}

func TestMemoryLoadReturnsIsolatedCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	p := model.NewProfile("user-1", now, 100)
	p.Points.Total = 10
	require.NoError(t, m.SaveProfile(ctx, p, 0))

	// muter la copie chargée ne doit pas toucher le document stocké
	first, _, err := m.LoadProfile(ctx, "user-1")
	require.NoError(t, err)
	first.Points.Total = 999

	second, _, err := m.LoadProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, second.Points.Total)
}

func TestMemoryLeaderboardRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	_, _, err := m.LoadLeaderboard(ctx, "weekly")
	require.ErrorIs(t, err, ErrNotFound)

	lb := &model.Leaderboard{
		ID: "weekly",
		Entries: []model.LeaderboardEntry{
			{ParticipantID: "alice", Score: 120, Rank: 1, UpdatedAt: now},
		},
		UpdatedAt: now,
	}
	require.NoError(t, m.SaveLeaderboard(ctx, lb, 0))

	loaded, version, err := m.LoadLeaderboard(ctx, "weekly")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, "alice", loaded.Entries[0].ParticipantID)

	require.ErrorIs(t, m.SaveLeaderboard(ctx, lb, 99), ErrVersionConflict)
}
