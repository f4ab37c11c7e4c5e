package gamification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/store"
)

type stubCatalog struct {
	achievements []model.AchievementDefinition
	boards       []model.LeaderboardDefinition
}

func (c *stubCatalog) Achievements() []model.AchievementDefinition { return c.achievements }

func (c *stubCatalog) Achievement(id string) (*model.AchievementDefinition, bool) {
	for i := range c.achievements {
		if c.achievements[i].ID == id {
			return &c.achievements[i], true
		}
	}
	return nil, false
}

func (c *stubCatalog) Leaderboards() []model.LeaderboardDefinition { return c.boards }

func (c *stubCatalog) Leaderboard(id string) (*model.LeaderboardDefinition, bool) {
	for i := range c.boards {
		if c.boards[i].ID == id {
			return &c.boards[i], true
		}
	}
	return nil, false
}

type stubNotifier struct {
	mu        sync.Mutex
	snapshots []*model.Leaderboard
}

func (n *stubNotifier) LeaderboardUpdated(lb *model.Leaderboard) {
	n.mu.Lock()
	n.snapshots = append(n.snapshots, lb)
	n.mu.Unlock()
}

func testEngine(t *testing.T, cat Catalog) (*Engine, *stubNotifier) {
	t.Helper()
	mem := store.NewMemory()
	notifier := &stubNotifier{}
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	e := NewEngine(EngineConfig{
		Profiles: mem,
		Boards:   mem,
		Catalog:  cat,
		Notifier: notifier,
		Clock:    func() time.Time { return now },
	})
	t.Cleanup(e.Close)
	return e, notifier
}

func TestAwardPointsValidation(t *testing.T) {
	e, _ := testEngine(t, &stubCatalog{})
	ctx := context.Background()

	var validation *ValidationError
	_, err := e.AwardPoints(ctx, "", "math", 10, nil)
	require.ErrorAs(t, err, &validation)

	_, err = e.AwardPoints(ctx, "user-1", "", 10, nil)
	require.ErrorAs(t, err, &validation)

	_, err = e.AwardPoints(ctx, "user-1", "math", 0, nil)
	require.ErrorAs(t, err, &validation)

	_, err = e.AwardPoints(ctx, "user-1", "math", -5, nil)
	require.ErrorAs(t, err, &validation)
}

func TestAwardPointsFeedsExperience(t *testing.T) {
	e, _ := testEngine(t, &stubCatalog{})
	ctx := context.Background()

	result, err := e.AwardPoints(ctx, "user-1", "math", 250, nil)
	require.NoError(t, err)

	// les points nourrissent l'expérience au ratio 1:1, d'où deux niveaux
	require.NotNil(t, result.LevelUp)
	assert.Equal(t, 3, result.LevelUp.To)

	p := result.Profile
	assert.Equal(t, 250, p.Points.Breakdown["math"])
	assert.Equal(t, 50, p.Points.Breakdown["bonus"])
	assert.Equal(t, 300, p.Points.Total)
	assert.Equal(t, 300, p.Points.Available)

	// la mutation est persistée
	loaded, err := e.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, loaded.Points.Total)
	assert.Equal(t, 3, loaded.Level.Current)
}

func TestSpendPoints(t *testing.T) {
	e, _ := testEngine(t, &stubCatalog{})
	ctx := context.Background()

	_, err := e.AwardPoints(ctx, "user-1", "math", 50, nil)
	require.NoError(t, err)

	p, err := e.SpendPoints(ctx, "user-1", 30)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Points.Available)
	assert.Equal(t, 50, p.Points.Total)
	assert.Equal(t, 50, p.Points.Lifetime)
	assert.Equal(t, 30, p.Points.Breakdown["spent"])

	// dépense au-delà du disponible : rejet avec le solde courant, rien ne bouge
	var insufficient *InsufficientResourceError
	_, err = e.SpendPoints(ctx, "user-1", 100)
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 100, insufficient.Requested)
	assert.Equal(t, 20, insufficient.Available)

	loaded, err := e.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 20, loaded.Points.Available)
}

func TestUpdateStreakThroughEngine(t *testing.T) {
	e, _ := testEngine(t, &stubCatalog{})
	ctx := context.Background()

	result, err := e.UpdateStreak(ctx, "user-1", "daily")
	require.NoError(t, err)
	assert.Equal(t, model.StreakStarted, result.Outcome)

	// même jour : idempotent
	result, err = e.UpdateStreak(ctx, "user-1", "daily")
	require.NoError(t, err)
	assert.Equal(t, model.StreakUnchanged, result.Outcome)
	assert.Equal(t, 1, result.Streak.Count)
}

func TestCheckEligibilityUnknownDefinition(t *testing.T) {
	e, _ := testEngine(t, &stubCatalog{})

	var definition *DefinitionError
	_, err := e.CheckEligibility(context.Background(), "user-1", "ghost")
	require.ErrorAs(t, err, &definition)
	assert.Equal(t, "ghost", definition.DefinitionID)
}

func TestRunAchievementSweepCompletesAndRewards(t *testing.T) {
	def := baseDefinition("first-points")
	def.Rewards = model.Rewards{
		Immediate: model.Reward{
			Points:     25,
			Experience: 10,
			Badge:      &model.BadgeGrant{BadgeID: "starter", Level: model.BadgeBronze},
			Title:      "Starter",
		},
	}
	e, _ := testEngine(t, &stubCatalog{achievements: []model.AchievementDefinition{def}})
	ctx := context.Background()

	// profil encore trop bas : progression enregistrée, pas de complétion
	_, err := e.AwardPoints(ctx, "user-1", "math", 40, nil)
	require.NoError(t, err)
	sweep, err := e.RunAchievementSweep(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sweep.NewlyCompleted)
	require.Len(t, sweep.ProgressUpdated, 1)
	assert.InDelta(t, 40.0, sweep.ProgressUpdated[0].Progress, 0.001)

	// le seuil est atteint : complétion et récompenses dans la même mutation
	_, err = e.AwardPoints(ctx, "user-1", "math", 80, nil)
	require.NoError(t, err)
	sweep, err = e.RunAchievementSweep(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sweep.NewlyCompleted, 1)
	assert.Equal(t, "first-points", sweep.NewlyCompleted[0].AchievementID)

	p := sweep.Profile
	progress := p.AchievementFor("first-points")
	require.NotNil(t, progress)
	assert.True(t, progress.Completed)
	assert.Equal(t, 100.0, progress.Progress)
	assert.Equal(t, 1, progress.Attempts)
	assert.Equal(t, 25, p.Points.Breakdown["achievements"])
	require.NotNil(t, p.BadgeFor("starter"))
	assert.True(t, p.HasTitle("Starter"))

	// un second passage ne re-complète pas un achievement terminal
	sweep, err = e.RunAchievementSweep(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sweep.NewlyCompleted)
	assert.Equal(t, 1, sweep.Profile.AchievementFor("first-points").Attempts)
}

func TestRunAchievementSweepMilestonesAwardOnce(t *testing.T) {
	def := baseDefinition("collector")
	def.Requirements.Conditions = []model.Condition{gteCondition("c1", "points.breakdown.math", 200)}
	def.Milestones = []model.Milestone{
		{Threshold: 25, Reward: model.Reward{Points: 5}},
		{Threshold: 50, Reward: model.Reward{Points: 10}},
	}
	e, _ := testEngine(t, &stubCatalog{achievements: []model.AchievementDefinition{def}})
	ctx := context.Background()

	_, err := e.AwardPoints(ctx, "user-1", "math", 100, nil) // progression 50
	require.NoError(t, err)
	sweep, err := e.RunAchievementSweep(ctx, "user-1")
	require.NoError(t, err)

	progress := sweep.Profile.AchievementFor("collector")
	require.NotNil(t, progress)
	assert.ElementsMatch(t, []float64{25, 50}, progress.MilestonesReached)
	assert.Equal(t, 15, sweep.Profile.Points.Breakdown["achievements"])

	// rejouer le sweep ne recrédite pas les jalons déjà franchis
	sweep, err = e.RunAchievementSweep(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 15, sweep.Profile.Points.Breakdown["achievements"])
}

func TestRunAchievementSweepSkipsInvalidDefinition(t *testing.T) {
	bad := baseDefinition("broken")
	bad.Requirements.Type = model.ReqAnyOf
	bad.Requirements.MinimumConditions = 0

	good := baseDefinition("fine")
	e, _ := testEngine(t, &stubCatalog{achievements: []model.AchievementDefinition{bad, good}})
	ctx := context.Background()

	_, err := e.AwardPoints(ctx, "user-1", "math", 150, nil)
	require.NoError(t, err)
	sweep, err := e.RunAchievementSweep(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"broken"}, sweep.Skipped)
	require.Len(t, sweep.NewlyCompleted, 1)
	assert.Equal(t, "fine", sweep.NewlyCompleted[0].AchievementID)
}

func testBoardDefinition(id string, maxEntries int) model.LeaderboardDefinition {
	return model.LeaderboardDefinition{
		ID:      id,
		Version: 1,
		Name:    "Test Board",
		Metrics: model.LeaderboardMetrics{
			Primary: model.MetricSpec{Field: "points", Aggregation: "sum"},
		},
		Display:   model.LeaderboardDisplay{MaxEntries: maxEntries},
		Timeframe: model.LeaderboardTimeframe{ResetSchedule: "none"},
	}
}

func TestUpdateLeaderboardEntry(t *testing.T) {
	cat := &stubCatalog{boards: []model.LeaderboardDefinition{testBoardDefinition("weekly", 100)}}
	e, notifier := testEngine(t, cat)
	ctx := context.Background()

	first, err := e.UpdateLeaderboardEntry(ctx, "weekly", "alice", 120, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, model.RankNew, first.RankChange)

	second, err := e.UpdateLeaderboardEntry(ctx, "weekly", "bob", 200, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Rank)

	// la position dénormalisée suit le profil
	p, err := e.GetProfile(ctx, "alice")
	require.NoError(t, err)
	position := p.PositionFor("weekly")
	require.NotNil(t, position)
	assert.Equal(t, 120.0, position.Score)

	// alice repasse devant : son rang et sa position se rafraîchissent
	third, err := e.UpdateLeaderboardEntry(ctx, "weekly", "alice", 250, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Rank)
	assert.Equal(t, model.RankUp, third.RankChange)

	p, err = e.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, p.PositionFor("weekly").Rank)
	assert.Equal(t, 250.0, p.PositionFor("weekly").Score)

	// chaque passe de classement a notifié son instantané
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Len(t, notifier.snapshots, 3)
}

func TestUpdateLeaderboardEntryUnknownBoard(t *testing.T) {
	e, _ := testEngine(t, &stubCatalog{})

	var definition *DefinitionError
	_, err := e.UpdateLeaderboardEntry(context.Background(), "ghost", "alice", 10, nil)
	require.ErrorAs(t, err, &definition)
}

func TestGetLeaderboardEmptySnapshot(t *testing.T) {
	cat := &stubCatalog{boards: []model.LeaderboardDefinition{testBoardDefinition("weekly", 100)}}
	e, _ := testEngine(t, cat)

	lb, err := e.GetLeaderboard(context.Background(), "weekly")
	require.NoError(t, err)
	assert.Equal(t, "weekly", lb.ID)
	assert.Empty(t, lb.Entries)
}

func TestConcurrentAwardsOnSameProfile(t *testing.T) {
	e, _ := testEngine(t, &stubCatalog{})
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := e.AwardPoints(ctx, "user-1", "math", 10, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := e.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, workers*10, p.Points.Breakdown["math"])
	assert.Equal(t, workers*10, p.Points.Lifetime)
}
