package model

import (
	"time"
)

// LevelUp résume les niveaux gagnés lors d'un seul octroi d'expérience.
// Un gros octroi peut faire gagner plusieurs niveaux d'un coup : chaque
// niveau traversé a son entrée dans Steps.
type LevelUp struct {
	From        int                 `json:"from"`
	To          int                 `json:"to"`
	BonusPoints int                 `json:"bonusPoints"`
	Unlocks     []string            `json:"unlocks,omitempty"`
	Steps       []LevelHistoryEntry `json:"steps"`
}

// AwardResult est le retour des octrois de points ou d'expérience
type AwardResult struct {
	Profile *Profile `json:"profile"`
	LevelUp *LevelUp `json:"levelUp,omitempty"`
}

// StreakOutcome classifie l'effet d'une mise à jour de streak
type StreakOutcome string

const (
	StreakStarted   StreakOutcome = "started"
	StreakContinued StreakOutcome = "continued"
	StreakReset     StreakOutcome = "reset"
	StreakUnchanged StreakOutcome = "unchanged" // même jour calendaire, idempotent
)

// StreakResult est le retour d'une mise à jour de streak
type StreakResult struct {
	Profile *Profile      `json:"profile"`
	Streak  Streak        `json:"streak"`
	Outcome StreakOutcome `json:"outcome"`
}

// EligibilityState est l'état d'un achievement pour un utilisateur
type EligibilityState string

const (
	StateLocked     EligibilityState = "locked"
	StateBlocked    EligibilityState = "blocked"
	StateInProgress EligibilityState = "in_progress"
	StateEligible   EligibilityState = "eligible"
	StateCompleted  EligibilityState = "completed"
)

// BlockerCode identifie une raison de blocage, pour l'affichage côté client.
// Tous les blocages présents sont remontés, pas seulement le premier.
type BlockerCode string

const (
	BlockerInactive             BlockerCode = "inactive"
	BlockerNotYetAvailable      BlockerCode = "not_yet_available"
	BlockerExpired              BlockerCode = "expired"
	BlockerCooldownActive       BlockerCode = "cooldown_active"
	BlockerMaxAttemptsReached   BlockerCode = "max_attempts_reached"
	BlockerDependencyIncomplete BlockerCode = "dependency_incomplete"
	BlockerExclusionCompleted   BlockerCode = "exclusion_completed"
)

// EligibilityResult est le retour d'une vérification d'éligibilité
type EligibilityResult struct {
	AchievementID string           `json:"achievementId"`
	State         EligibilityState `json:"state"`
	Eligible      bool             `json:"eligible"`
	Progress      float64          `json:"progress"`
	Blockers      []BlockerCode    `json:"blockers,omitempty"`
	NextMilestone *Milestone       `json:"nextMilestone,omitempty"`
}

// CompletedAchievement décrit un achievement complété pendant un sweep
type CompletedAchievement struct {
	AchievementID string    `json:"achievementId"`
	Name          string    `json:"name"`
	Reward        Reward    `json:"reward"`
	CompletedAt   time.Time `json:"completedAt"`
}

// SweepResult est le retour d'un passage d'éligibilité sur tout le catalogue
type SweepResult struct {
	Profile         *Profile               `json:"profile"`
	NewlyCompleted  []CompletedAchievement `json:"newlyCompleted"`
	ProgressUpdated []AchievementProgress  `json:"progressUpdated"`
	Skipped         []string               `json:"skipped,omitempty"` // définitions invalides ignorées
}

// RankResult est le retour d'une mise à jour d'entrée de classement
type RankResult struct {
	LeaderboardID string       `json:"leaderboardId"`
	ParticipantID string       `json:"participantId"`
	Rank          int          `json:"rank"`
	RankChange    RankChange   `json:"rankChange"`
	Snapshot      *Leaderboard `json:"snapshot"`
}
