package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

func TestDefaultCurve(t *testing.T) {
	assert.Equal(t, 100, DefaultCurve(1))
	assert.Equal(t, 120, DefaultCurve(2))
	assert.Equal(t, 144, DefaultCurve(3))
	assert.Equal(t, 172, DefaultCurve(4))
}

func TestTitleForLevel(t *testing.T) {
	assert.Equal(t, "Little Sprout", TitleForLevel(1))
	assert.Equal(t, "Little Sprout", TitleForLevel(4))
	assert.Equal(t, "Curious Explorer", TitleForLevel(5))
	assert.Equal(t, "Bright Star", TitleForLevel(12))
	assert.Equal(t, "Grand Master", TitleForLevel(150))
}

func TestApplyExperienceNoLevelUp(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p := model.NewProfile("user-1", now, DefaultCurve(1))

	levelUp := ApplyExperience(p, 40, DefaultCurve, now)
	assert.Nil(t, levelUp)
	assert.Equal(t, 1, p.Level.Current)
	assert.Equal(t, 40, p.Level.Experience)
	assert.Empty(t, p.LevelHistory)
}

func TestApplyExperienceCascadingLevels(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p := model.NewProfile("user-1", now, DefaultCurve(1))

	// 250 XP : niveau 1 -> 2 (seuil 100), puis 2 -> 3 (seuil 120), reste 30
	levelUp := ApplyExperience(p, 250, DefaultCurve, now)
	require.NotNil(t, levelUp)
	assert.Equal(t, 1, levelUp.From)
	assert.Equal(t, 3, levelUp.To)
	assert.Len(t, levelUp.Steps, 2)

	assert.Equal(t, 3, p.Level.Current)
	assert.Equal(t, 30, p.Level.Experience)
	assert.Equal(t, 144, p.Level.ExperienceToNext)

	// bonus de 10 par niveau atteint : 20 + 30
	assert.Equal(t, 50, levelUp.BonusPoints)
	assert.Equal(t, 50, p.Points.Total)
	assert.Equal(t, 50, p.Points.Available)
	assert.Equal(t, 50, p.Points.Breakdown["bonus"])

	// une entrée d'historique par niveau traversé, avec un id chacune
	require.Len(t, p.LevelHistory, 2)
	assert.Equal(t, 2, p.LevelHistory[0].Level)
	assert.Equal(t, 3, p.LevelHistory[1].Level)
	assert.NotEmpty(t, p.LevelHistory[0].ID)
	assert.NotEqual(t, p.LevelHistory[0].ID, p.LevelHistory[1].ID)
}

func TestApplyExperienceInvariant(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p := model.NewProfile("user-1", now, DefaultCurve(1))

	for _, amount := range []int{1, 99, 100, 250, 1000, 5000} {
		ApplyExperience(p, amount, DefaultCurve, now)
		assert.Less(t, p.Level.Experience, p.Level.ExperienceToNext,
			"experience must stay below the next threshold after amount %d", amount)
	}
}

func TestApplyExperienceUnlocksAndTitle(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p := model.NewProfile("user-1", now, DefaultCurve(1))

	// assez d'XP pour dépasser le niveau 5
	levelUp := ApplyExperience(p, 800, DefaultCurve, now)
	require.NotNil(t, levelUp)
	require.GreaterOrEqual(t, p.Level.Current, 5)

	assert.Contains(t, levelUp.Unlocks, "avatar_pack_explorer")
	assert.Equal(t, TitleForLevel(p.Level.Current), p.Level.Title)
}

func TestApplyExperienceExactThresholdMultiples(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	// un octroi égal à la somme exacte des k prochains seuils produit k
	// entrées d'historique et laisse l'expérience à zéro
	for k := 1; k <= 4; k++ {
		p := model.NewProfile("user-1", now, DefaultCurve(1))
		amount := 0
		for level := 1; level <= k; level++ {
			amount += DefaultCurve(level)
		}

		levelUp := ApplyExperience(p, amount, DefaultCurve, now)
		require.NotNil(t, levelUp)
		assert.Len(t, p.LevelHistory, k)
		assert.Equal(t, 1+k, p.Level.Current)
		assert.Equal(t, 0, p.Level.Experience)
	}
}

func TestApplyExperienceCustomCurve(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	flat := func(level int) int { return 10 }
	p := model.NewProfile("user-1", now, flat(1))

	levelUp := ApplyExperience(p, 35, flat, now)
	require.NotNil(t, levelUp)
	assert.Equal(t, 4, levelUp.To)
	assert.Equal(t, 5, p.Level.Experience)
}
