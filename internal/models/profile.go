package model

import (
	"time"
)

// PointsBreakdown ventile les points gagnés par source (activities, assignments, bonus...)
type PointsBreakdown map[string]int

// Points contient les compteurs de points d'un profil.
// Invariant : Available <= Total, Lifetime ne décroît jamais.
type Points struct {
	Total     int             `json:"total"`
	Available int             `json:"available"`
	Lifetime  int             `json:"lifetime"`
	Breakdown PointsBreakdown `json:"breakdown"`
}

// Level contient la progression de niveau d'un profil.
// Invariant au repos : Experience < ExperienceToNext.
type Level struct {
	Current          int    `json:"current"`
	Experience       int    `json:"experience"`
	ExperienceToNext int    `json:"experienceToNext"`
	Title            string `json:"title"`
}

// LevelHistoryEntry trace un passage de niveau (un enregistrement par niveau gagné)
type LevelHistoryEntry struct {
	ID          string    `json:"id"`
	Level       int       `json:"level"`
	BonusPoints int       `json:"bonusPoints"`
	Unlocks     []string  `json:"unlocks,omitempty"`
	ReachedAt   time.Time `json:"reachedAt"`
}

// BadgeLevel représente le palier d'un badge (bronze -> diamond)
type BadgeLevel string

const (
	BadgeBronze   BadgeLevel = "bronze"
	BadgeSilver   BadgeLevel = "silver"
	BadgeGold     BadgeLevel = "gold"
	BadgePlatinum BadgeLevel = "platinum"
	BadgeDiamond  BadgeLevel = "diamond"
)

var badgeLevelRanks = map[BadgeLevel]int{
	BadgeBronze:   1,
	BadgeSilver:   2,
	BadgeGold:     3,
	BadgePlatinum: 4,
	BadgeDiamond:  5,
}

// Rank retourne l'ordre du palier (0 si palier inconnu)
func (b BadgeLevel) Rank() int {
	return badgeLevelRanks[b]
}

// BadgeAward est un badge gagné par l'utilisateur.
// Le palier peut être amélioré sur place mais jamais rétrogradé.
type BadgeAward struct {
	BadgeID  string     `json:"badgeId"`
	Level    BadgeLevel `json:"level"`
	EarnedAt time.Time  `json:"earnedAt"`
	Progress float64    `json:"progress"`
}

// AchievementProgress suit la progression d'un utilisateur sur un achievement.
// Créé à la première progression non nulle, terminal une fois Completed=true
// (sauf si la définition autorise une nouvelle tentative via cooldown).
type AchievementProgress struct {
	AchievementID     string     `json:"achievementId"`
	Progress          float64    `json:"progress"` // 0..100
	Completed         bool       `json:"completed"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	Attempts          int        `json:"attempts"`
	MilestonesReached []float64  `json:"milestonesReached,omitempty"`
	LastAttemptAt     *time.Time `json:"lastAttemptAt,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Streak est un compteur de jours consécutifs pour un type d'engagement donné.
// Un seul streak par (utilisateur, type).
type Streak struct {
	Type       string    `json:"type"`
	Count      int       `json:"count"`
	StartDate  time.Time `json:"startDate"`
	LastUpdate time.Time `json:"lastUpdate"`
	Multiplier float64   `json:"multiplier"`
}

// StreakRecord garde le meilleur streak jamais atteint, tous types confondus
type StreakRecord struct {
	Longest      int        `json:"longest"`
	LongestType  string     `json:"longestType,omitempty"`
	LongestStart *time.Time `json:"longestStart,omitempty"`
	LongestEnd   *time.Time `json:"longestEnd,omitempty"`
}

// Position est la vue dénormalisée d'une entrée de classement côté profil.
// L'entrée appartient à l'agrégat Leaderboard, le profil n'en garde qu'une lecture.
type Position struct {
	LeaderboardID string    `json:"leaderboardId"`
	Rank          int       `json:"rank"`
	Score         float64   `json:"score"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Profile est l'agrégat gamification d'un utilisateur.
// Créé paresseusement au premier événement, muté uniquement via l'orchestrateur.
type Profile struct {
	UserID               string                `json:"userId"`
	Points               Points                `json:"points"`
	Level                Level                 `json:"level"`
	LevelHistory         []LevelHistoryEntry   `json:"levelHistory,omitempty"`
	Badges               []BadgeAward          `json:"badges,omitempty"`
	Titles               []string              `json:"titles,omitempty"`
	Achievements         []AchievementProgress `json:"achievements,omitempty"`
	Streaks              []Streak              `json:"streaks,omitempty"`
	StreakRecord         StreakRecord          `json:"streakRecord"`
	LeaderboardPositions []Position            `json:"leaderboardPositions,omitempty"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// NewProfile initialise un profil vierge au niveau 1
func NewProfile(userID string, now time.Time, experienceToNext int) *Profile {
	return &Profile{
		UserID: userID,
		Points: Points{Breakdown: PointsBreakdown{}},
		Level: Level{
			Current:          1,
			Experience:       0,
			ExperienceToNext: experienceToNext,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StreakFor retourne le streak du type demandé, ou nil s'il n'existe pas encore
func (p *Profile) StreakFor(streakType string) *Streak {
	for i := range p.Streaks {
		if p.Streaks[i].Type == streakType {
			return &p.Streaks[i]
		}
	}
	return nil
}

// AchievementFor retourne la progression sur un achievement, ou nil
func (p *Profile) AchievementFor(achievementID string) *AchievementProgress {
	for i := range p.Achievements {
		if p.Achievements[i].AchievementID == achievementID {
			return &p.Achievements[i]
		}
	}
	return nil
}

// BadgeFor retourne le badge gagné, ou nil
func (p *Profile) BadgeFor(badgeID string) *BadgeAward {
	for i := range p.Badges {
		if p.Badges[i].BadgeID == badgeID {
			return &p.Badges[i]
		}
	}
	return nil
}

// PositionFor retourne la position dénormalisée sur un classement, ou nil
func (p *Profile) PositionFor(leaderboardID string) *Position {
	for i := range p.LeaderboardPositions {
		if p.LeaderboardPositions[i].LeaderboardID == leaderboardID {
			return &p.LeaderboardPositions[i]
		}
	}
	return nil
}

// HasTitle indique si le profil possède déjà un titre
func (p *Profile) HasTitle(title string) bool {
	for _, t := range p.Titles {
		if t == title {
			return true
		}
	}
	return false
}
