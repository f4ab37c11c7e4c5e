package gamification

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

func numPtr(n float64) *float64 { return &n }

func testProfile() *model.Profile {
	return &model.Profile{
		UserID: "user-1",
		Points: model.Points{
			Total:     150,
			Available: 120,
			Lifetime:  200,
			Breakdown: model.PointsBreakdown{"math": 80, "english": 120},
		},
		Level:  model.Level{Current: 4, Experience: 30, ExperienceToNext: 172, Title: "Little Sprout"},
		Titles: []string{"Little Sprout", "Oiseau de nuit"},
		Badges: []model.BadgeAward{
			{BadgeID: "explorer", Level: model.BadgeBronze},
			{BadgeID: "scholar", Level: model.BadgeGold},
		},
		Streaks: []model.Streak{
			{Type: "daily", Count: 5, Multiplier: 1.0},
		},
		StreakRecord: model.StreakRecord{Longest: 12, LongestType: "daily"},
	}
}

func TestEvaluateConditionNumericOperators(t *testing.T) {
	tests := []struct {
		name string
		cond model.Condition
		want float64
	}{
		{
			name: "gte satisfied",
			cond: model.Condition{Field: "points.lifetime", Operator: model.OpGte, Value: model.ConditionValue{Number: numPtr(100)}},
			want: 100,
		},
		{
			name: "gte partial credit",
			cond: model.Condition{Field: "points.lifetime", Operator: model.OpGte, Value: model.ConditionValue{Number: numPtr(400)}},
			want: 50,
		},
		{
			name: "gt at exact threshold caps at 99",
			cond: model.Condition{Field: "points.lifetime", Operator: model.OpGt, Value: model.ConditionValue{Number: numPtr(200)}},
			want: 99,
		},
		{
			name: "gt strictly above",
			cond: model.Condition{Field: "points.lifetime", Operator: model.OpGt, Value: model.ConditionValue{Number: numPtr(199)}},
			want: 100,
		},
		{
			name: "lt below is binary full",
			cond: model.Condition{Field: "level.current", Operator: model.OpLt, Value: model.ConditionValue{Number: numPtr(10)}},
			want: 100,
		},
		{
			name: "lt above gives no partial credit",
			cond: model.Condition{Field: "level.current", Operator: model.OpLt, Value: model.ConditionValue{Number: numPtr(3)}},
			want: 0,
		},
		{
			name: "lte at threshold",
			cond: model.Condition{Field: "level.current", Operator: model.OpLte, Value: model.ConditionValue{Number: numPtr(4)}},
			want: 100,
		},
		{
			name: "eq numeric match",
			cond: model.Condition{Field: "level.current", Operator: model.OpEq, Value: model.ConditionValue{Number: numPtr(4)}},
			want: 100,
		},
		{
			name: "ne numeric match",
			cond: model.Condition{Field: "level.current", Operator: model.OpNe, Value: model.ConditionValue{Number: numPtr(4)}},
			want: 0,
		},
		{
			name: "zero threshold gives no partial credit",
			cond: model.Condition{Field: "streaks.missing.count", Operator: model.OpGte, Value: model.ConditionValue{Number: numPtr(0)}},
			want: 100,
		},
		{
			name: "missing streak reads as zero",
			cond: model.Condition{Field: "streaks.missing.count", Operator: model.OpGte, Value: model.ConditionValue{Number: numPtr(10)}},
			want: 0,
		},
	}

	p := testProfile()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EvaluateCondition(p, &tt.cond), 0.001)
		})
	}
}

func TestEvaluateConditionBetween(t *testing.T) {
	p := testProfile()
	cond := model.Condition{
		Field:    "points.lifetime", // 200
		Operator: model.OpBetween,
		Value:    model.ConditionValue{Range: &[2]float64{100, 300}},
	}
	assert.InDelta(t, 100.0, EvaluateCondition(p, &cond), 0.001)

	// sous la borne basse : rampe linéaire plafonnée à 50
	below := model.Condition{
		Field:    "points.breakdown.math", // 80
		Operator: model.OpBetween,
		Value:    model.ConditionValue{Range: &[2]float64{160, 300}},
	}
	assert.InDelta(t, 25.0, EvaluateCondition(p, &below), 0.001)

	// au-delà de la borne haute : rampe décroissante
	above := model.Condition{
		Field:    "points.lifetime", // 200
		Operator: model.OpBetween,
		Value:    model.ConditionValue{Range: &[2]float64{50, 160}},
	}
	// (1 - (200-160)/160) * 50 = 37.5
	assert.InDelta(t, 37.5, EvaluateCondition(p, &above), 0.001)
}

func TestEvaluateConditionTextOperators(t *testing.T) {
	p := testProfile()

	eq := model.Condition{
		Field:    "level.title",
		Operator: model.OpEq,
		Value:    model.ConditionValue{Pattern: "Little Sprout"},
	}
	assert.Equal(t, 100.0, EvaluateCondition(p, &eq))

	in := model.Condition{
		Field:    "level.current",
		Operator: model.OpIn,
		Value:    model.ConditionValue{Set: []string{"3", "4", "5"}},
	}
	assert.Equal(t, 100.0, EvaluateCondition(p, &in))

	re := regexp.MustCompile(`^Little`)
	rx := model.Condition{
		Field:    "level.title",
		Operator: model.OpRegex,
		Value:    model.ConditionValue{Pattern: "^Little", Regexp: re},
	}
	assert.Equal(t, 100.0, EvaluateCondition(p, &rx))
}

func TestEvaluateConditionContains(t *testing.T) {
	p := testProfile()

	// champ liste : crédit au prorata des éléments requis présents
	cond := model.Condition{
		Field:    "badges",
		Operator: model.OpContains,
		Value:    model.ConditionValue{Set: []string{"explorer", "scholar", "pathfinder"}},
	}
	got := EvaluateCondition(p, &cond)
	require.InDelta(t, 100.0*2/3, got, 0.001)

	// champ scalaire : correspondance de sous-chaîne binaire
	sub := model.Condition{
		Field:    "level.title",
		Operator: model.OpContains,
		Value:    model.ConditionValue{Set: []string{"Sprout"}},
	}
	assert.Equal(t, 100.0, EvaluateCondition(p, &sub))
}

func TestEvaluateConditionUnknownFieldDegradesToZero(t *testing.T) {
	p := testProfile()
	cond := model.Condition{
		Field:    "unknown.path",
		Operator: model.OpGte,
		Value:    model.ConditionValue{Number: numPtr(1)},
	}
	assert.Equal(t, 0.0, EvaluateCondition(p, &cond))
}
