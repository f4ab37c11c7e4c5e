package gamification

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/leaderboard"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/logger"
	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/store"
)

// Clock fournit l'heure courante, injectée pour les tests
type Clock func() time.Time

// Catalog est la vue du moteur sur le catalogue de définitions
type Catalog interface {
	Achievements() []model.AchievementDefinition
	Achievement(id string) (*model.AchievementDefinition, bool)
	Leaderboards() []model.LeaderboardDefinition
	Leaderboard(id string) (*model.LeaderboardDefinition, bool)
}

// Notifier reçoit l'instantané d'un classement après chaque recalcul.
// Implémenté par le hub websocket, nil si personne n'écoute.
type Notifier interface {
	LeaderboardUpdated(lb *model.Leaderboard)
}

const (
	profileLockStripes = 64
	defaultMaxRetries  = 3
	sweepParallelism   = 8
	pointsSpentSource  = "spent"
)

// Engine est l'orchestrateur : la façade unique par laquelle les
// collaborateurs externes font entrer les événements de gamification.
// Toutes les mutations d'un même profil sont sérialisées (verrou par
// utilisateur + version optimiste côté store), les classements ont chacun
// leur écrivain unique.
type Engine struct {
	profiles   store.ProfileStore
	boards     store.LeaderboardStore
	catalog    Catalog
	queue      *leaderboard.Queue
	locks      [profileLockStripes]sync.Mutex
	clock      Clock
	curve      Curve
	notifier   Notifier
	maxRetries int
}

// EngineConfig regroupe les dépendances injectées du moteur
type EngineConfig struct {
	Profiles   store.ProfileStore
	Boards     store.LeaderboardStore
	Catalog    Catalog
	Notifier   Notifier // optionnel
	Clock      Clock    // optionnel, time.Now par défaut
	Curve      Curve    // optionnel, DefaultCurve par défaut
	MaxRetries int      // optionnel, 3 par défaut
}

// NewEngine construit l'orchestrateur avec ses dépendances
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		profiles:   cfg.Profiles,
		boards:     cfg.Boards,
		catalog:    cfg.Catalog,
		queue:      leaderboard.NewQueue(),
		clock:      cfg.Clock,
		curve:      cfg.Curve,
		notifier:   cfg.Notifier,
		maxRetries: cfg.MaxRetries,
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.curve == nil {
		e.curve = DefaultCurve
	}
	if e.maxRetries <= 0 {
		e.maxRetries = defaultMaxRetries
	}
	return e
}

// Close arrête les workers de classement
func (e *Engine) Close() {
	e.queue.Close()
}

// AwardPoints crédite des points depuis une source et nourrit l'expérience
// au ratio 1:1. Les passages de niveau en cascade partent dans la même
// mutation.
func (e *Engine) AwardPoints(ctx context.Context, userID, source string, amount int, metadata map[string]string) (*model.AwardResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if source == "" {
		return nil, &ValidationError{Field: "source", Reason: "must not be empty"}
	}
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	var levelUp *model.LevelUp
	profile, err := e.mutateProfile(ctx, userID, func(p *model.Profile) error {
		now := e.clock()
		AddPoints(p, source, amount, now)
		levelUp = ApplyExperience(p, amount, e.curve, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		logger.Debug("awarded %d points to %s from %s (metadata: %v)", amount, userID, source, metadata)
	}
	return &model.AwardResult{Profile: profile, LevelUp: levelUp}, nil
}

// AwardExperience crédite de l'expérience seule
func (e *Engine) AwardExperience(ctx context.Context, userID string, amount int) (*model.AwardResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	var levelUp *model.LevelUp
	profile, err := e.mutateProfile(ctx, userID, func(p *model.Profile) error {
		levelUp = ApplyExperience(p, amount, e.curve, e.clock())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &model.AwardResult{Profile: profile, LevelUp: levelUp}, nil
}

// SpendPoints débite le solde disponible. Une dépense au-delà du disponible
// est rejetée sans rien persister, le solde courant part dans l'erreur.
func (e *Engine) SpendPoints(ctx context.Context, userID string, amount int) (*model.Profile, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	return e.mutateProfile(ctx, userID, func(p *model.Profile) error {
		if amount > p.Points.Available {
			return &InsufficientResourceError{
				Resource:  "points",
				Requested: amount,
				Available: p.Points.Available,
			}
		}
		p.Points.Available -= amount
		if p.Points.Breakdown == nil {
			p.Points.Breakdown = model.PointsBreakdown{}
		}
		p.Points.Breakdown[pointsSpentSource] += amount
		p.UpdatedAt = e.clock()
		return nil
	})
}

// UpdateStreak enregistre un événement d'engagement pour un type de streak
func (e *Engine) UpdateStreak(ctx context.Context, userID, streakType string) (*model.StreakResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if streakType == "" {
		return nil, &ValidationError{Field: "streakType", Reason: "must not be empty"}
	}

	var streak model.Streak
	var outcome model.StreakOutcome
	profile, err := e.mutateProfile(ctx, userID, func(p *model.Profile) error {
		streak, outcome = ApplyStreak(p, streakType, e.clock())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &model.StreakResult{Profile: profile, Streak: streak, Outcome: outcome}, nil
}

// CheckEligibility évalue un seul achievement pour un utilisateur, en
// lecture seule
func (e *Engine) CheckEligibility(ctx context.Context, userID, achievementID string) (*model.EligibilityResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	def, ok := e.catalog.Achievement(achievementID)
	if !ok {
		return nil, &DefinitionError{DefinitionID: achievementID, Reason: "not in catalog"}
	}

	profile, err := e.loadOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := ResolveEligibility(profile, def, e.clock())
	return &result, nil
}

// RunAchievementSweep passe tout le catalogue pour un utilisateur :
// l'évaluation est concurrente et en lecture seule sur le profil, puis les
// complétions et jalons franchis sont appliqués séquentiellement dans la
// même mutation. Une définition fautive est ignorée, jamais bloquante.
func (e *Engine) RunAchievementSweep(ctx context.Context, userID string) (*model.SweepResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}

	result := &model.SweepResult{}
	profile, err := e.mutateProfile(ctx, userID, func(p *model.Profile) error {
		now := e.clock()
		defs := e.catalog.Achievements()

		evaluations := make([]model.EligibilityResult, len(defs))
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(sweepParallelism)
		for i := range defs {
			i := i
			g.Go(func() error {
				evaluations[i] = ResolveEligibility(p, &defs[i], now)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		result.NewlyCompleted = nil
		result.ProgressUpdated = nil
		result.Skipped = nil
		for i := range defs {
			e.applySweepResult(p, &defs[i], &evaluations[i], now, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Profile = profile
	return result, nil
}

// applySweepResult reporte une évaluation sur le profil : création de la
// progression à la première avancée, jalons franchis, complétion et
// récompenses
func (e *Engine) applySweepResult(p *model.Profile, def *model.AchievementDefinition, eval *model.EligibilityResult, now time.Time, result *model.SweepResult) {
	if def.Requirements.Type == model.ReqAnyOf && def.Requirements.MinimumConditions <= 0 {
		// définition passée hors du loader : on la loggue et on continue
		logger.Warning("skipping invalid achievement definition %s: any_of without minimumConditions", def.ID)
		result.Skipped = append(result.Skipped, def.ID)
		return
	}
	if eval.State == model.StateLocked {
		return
	}

	progress := p.AchievementFor(def.ID)
	if progress != nil && progress.Completed && eval.State != model.StateEligible {
		return // terminal, la progression ne régresse jamais
	}
	if progress == nil {
		if eval.Progress <= 0 {
			return
		}
		p.Achievements = append(p.Achievements, model.AchievementProgress{
			AchievementID: def.ID,
		})
		progress = &p.Achievements[len(p.Achievements)-1]
	}

	changed := progress.Progress != eval.Progress
	progress.Progress = eval.Progress
	progress.UpdatedAt = now

	// jalons franchis : récompense progressive une seule fois par seuil
	for _, milestone := range def.Milestones {
		if milestone.Threshold > eval.Progress || milestoneReached(progress, milestone.Threshold) {
			continue
		}
		progress.MilestonesReached = append(progress.MilestonesReached, milestone.Threshold)
		ApplyReward(p, milestone.Reward, "achievements", e.curve, now)
		changed = true
	}

	// une complétion, ou une re-complétion quand la définition autorise les
	// nouvelles tentatives (cooldown) et que la fenêtre est écoulée
	canComplete := !progress.Completed || def.TimeConstraints.CooldownPeriod > 0
	if eval.State == model.StateEligible && canComplete {
		completedAt := now
		progress.Completed = true
		progress.CompletedAt = &completedAt
		progress.LastAttemptAt = &completedAt
		progress.Attempts++
		progress.Progress = 100

		ApplyReward(p, def.Rewards.Immediate, "achievements", e.curve, now)
		if def.Rewards.Special != nil {
			ApplyReward(p, *def.Rewards.Special, "achievements", e.curve, now)
		}
		result.NewlyCompleted = append(result.NewlyCompleted, model.CompletedAchievement{
			AchievementID: def.ID,
			Name:          def.Name,
			Reward:        def.Rewards.Immediate,
			CompletedAt:   now,
		})
		logger.Success("user %s completed achievement %s", p.UserID, def.ID)
		return
	}

	if changed {
		result.ProgressUpdated = append(result.ProgressUpdated, *progress)
	}
}

// UpdateLeaderboardEntry pousse un score dans un classement via son écrivain
// unique, puis reporte la position dénormalisée sur le profil
func (e *Engine) UpdateLeaderboardEntry(ctx context.Context, leaderboardID, userID string, score float64, secondaryMetrics map[string]float64) (*model.RankResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	def, ok := e.catalog.Leaderboard(leaderboardID)
	if !ok {
		return nil, &DefinitionError{DefinitionID: leaderboardID, Reason: "not in catalog"}
	}

	ranker := leaderboard.NewRanker(def)
	var entry model.LeaderboardEntry
	var snapshot *model.Leaderboard

	err := e.queue.Do(leaderboardID, func() error {
		for attempt := 0; attempt < e.maxRetries; attempt++ {
			lb, version, err := e.boards.LoadLeaderboard(ctx, leaderboardID)
			if errors.Is(err, store.ErrNotFound) {
				lb, version = &model.Leaderboard{ID: leaderboardID}, 0
			} else if err != nil {
				return err
			}

			entry = ranker.UpdateEntry(lb, userID, score, secondaryMetrics, e.clock())
			err = e.boards.SaveLeaderboard(ctx, lb, version)
			if err == nil {
				snapshot = lb
				return nil
			}
			if !errors.Is(err, store.ErrVersionConflict) {
				return err
			}
			// une autre instance a écrit entre temps : on recharge et on rejoue
		}
		return &ConcurrencyConflictError{Aggregate: "leaderboard", ID: leaderboardID, Attempts: e.maxRetries}
	})
	if err != nil {
		return nil, err
	}

	if _, err := e.mutateProfile(ctx, userID, func(p *model.Profile) error {
		e.applyPosition(p, leaderboardID, entry)
		return nil
	}); err != nil {
		return nil, err
	}

	if e.notifier != nil {
		e.notifier.LeaderboardUpdated(snapshot)
	}

	return &model.RankResult{
		LeaderboardID: leaderboardID,
		ParticipantID: userID,
		Rank:          entry.Rank,
		RankChange:    entry.RankChange,
		Snapshot:      snapshot,
	}, nil
}

func (e *Engine) applyPosition(p *model.Profile, leaderboardID string, entry model.LeaderboardEntry) {
	position := model.Position{
		LeaderboardID: leaderboardID,
		Rank:          entry.Rank,
		Score:         entry.Score,
		UpdatedAt:     entry.UpdatedAt,
	}
	if existing := p.PositionFor(leaderboardID); existing != nil {
		*existing = position
		return
	}
	p.LeaderboardPositions = append(p.LeaderboardPositions, position)
}

// mutateProfile sérialise une mutation de profil : verrou par utilisateur,
// chargement (ou création paresseuse), mutation, sauvegarde optimiste avec
// relecture bornée sur conflit de version.
func (e *Engine) mutateProfile(ctx context.Context, userID string, fn func(p *model.Profile) error) (*model.Profile, error) {
	lock := e.profileLock(userID)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 0; attempt < e.maxRetries; attempt++ {
		p, version, err := e.profiles.LoadProfile(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			now := e.clock()
			p, version = model.NewProfile(userID, now, e.curve(1)), 0
			p.Level.Title = TitleForLevel(1)
		} else if err != nil {
			return nil, err
		}

		if err := fn(p); err != nil {
			return nil, err
		}

		err = e.profiles.SaveProfile(ctx, p, version)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, &ConcurrencyConflictError{Aggregate: "profile", ID: userID, Attempts: e.maxRetries}
}

// loadOrDefault retourne le profil persisté, ou un profil vierge non
// sauvegardé pour les lectures sur un utilisateur encore sans événement
func (e *Engine) loadOrDefault(ctx context.Context, userID string) (*model.Profile, error) {
	p, _, err := e.profiles.LoadProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		now := e.clock()
		p = model.NewProfile(userID, now, e.curve(1))
		p.Level.Title = TitleForLevel(1)
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfile expose la lecture du profil pour la couche HTTP
func (e *Engine) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	return e.loadOrDefault(ctx, userID)
}

// GetLeaderboard expose la lecture d'un instantané de classement
func (e *Engine) GetLeaderboard(ctx context.Context, leaderboardID string) (*model.Leaderboard, error) {
	if _, ok := e.catalog.Leaderboard(leaderboardID); !ok {
		return nil, &DefinitionError{DefinitionID: leaderboardID, Reason: "not in catalog"}
	}
	lb, _, err := e.boards.LoadLeaderboard(ctx, leaderboardID)
	if errors.Is(err, store.ErrNotFound) {
		return &model.Leaderboard{ID: leaderboardID}, nil
	}
	if err != nil {
		return nil, err
	}
	return lb, nil
}

func (e *Engine) profileLock(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &e.locks[h.Sum32()%profileLockStripes]
}

func milestoneReached(progress *model.AchievementProgress, threshold float64) bool {
	for _, reached := range progress.MilestonesReached {
		if reached == threshold {
			return true
		}
	}
	return false
}
