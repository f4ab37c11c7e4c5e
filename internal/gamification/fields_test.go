package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFieldPaths(t *testing.T) {
	p := testProfile()

	tests := []struct {
		path string
		want float64
	}{
		{"points.total", 150},
		{"points.available", 120},
		{"points.lifetime", 200},
		{"points.breakdown.math", 80},
		{"points.breakdown.unknown", 0},
		{"level.current", 4},
		{"level.experience", 30},
		{"badges.count", 2},
		{"achievements.completed", 0},
		{"achievements.never-started.progress", 0},
		{"streaks.daily.count", 5},
		{"streaks.daily.multiplier", 1},
		{"streaks.missing.count", 0},
		{"streakRecord.longest", 12},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			getter, err := ResolveField(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, getter(p).Number)
		})
	}
}

func TestResolveFieldTextAndLists(t *testing.T) {
	p := testProfile()

	getter, err := ResolveField("level.title")
	require.NoError(t, err)
	fv := getter(p)
	assert.Equal(t, FieldText, fv.Kind)
	assert.Equal(t, "Little Sprout", fv.String())

	getter, err = ResolveField("badges")
	require.NoError(t, err)
	fv = getter(p)
	assert.Equal(t, FieldList, fv.Kind)
	assert.Equal(t, []string{"explorer", "scholar"}, fv.List)

	getter, err = ResolveField("titles")
	require.NoError(t, err)
	assert.Equal(t, []string{"Little Sprout", "Oiseau de nuit"}, getter(p).List)
}

func TestResolveFieldUnknownPath(t *testing.T) {
	for _, path := range []string{"", "nope", "points", "points.nope", "level.nope", "streaks.daily", "streaks.daily.nope"} {
		_, err := ResolveField(path)
		assert.Error(t, err, "path %q should not resolve", path)
	}
}

func TestResolveFieldIsCached(t *testing.T) {
	first, err := ResolveField("points.total")
	require.NoError(t, err)
	second, err := ResolveField("points.total")
	require.NoError(t, err)

	// même accesseur résolu, lisant le profil au moment de l'appel
	p := testProfile()
	assert.Equal(t, first(p), second(p))
	p.Points.Total = 999
	assert.Equal(t, 999.0, first(p).Number)
}
