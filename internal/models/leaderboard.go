package model

import (
	"time"
)

// RankChange classifie l'évolution d'un rang entre deux recalculs
type RankChange string

const (
	RankUp   RankChange = "up"
	RankDown RankChange = "down"
	RankSame RankChange = "same"
	RankNew  RankChange = "new"
)

// MetricSpec décrit la métrique principale d'un classement
type MetricSpec struct {
	Field       string `json:"field"`
	Aggregation string `json:"aggregation"` // sum, max, last
}

// SecondaryMetric départage les ex aequo, dans l'ordre de déclaration.
// Convention : la valeur la plus haute est toujours préférée, le poids ne
// fait que pondérer la magnitude de l'écart.
type SecondaryMetric struct {
	Field  string  `json:"field"`
	Weight float64 `json:"weight"`
}

// LeaderboardMetrics regroupe métrique principale et métriques secondaires
type LeaderboardMetrics struct {
	Primary   MetricSpec        `json:"primary"`
	Secondary []SecondaryMetric `json:"secondary,omitempty"`
}

// LeaderboardDisplay contient les réglages d'affichage
type LeaderboardDisplay struct {
	MaxEntries int `json:"maxEntries"`
}

// LeaderboardTimeframe contient la périodicité de remise à zéro
type LeaderboardTimeframe struct {
	ResetSchedule string `json:"resetSchedule"` // daily, weekly, monthly, none
}

// LeaderboardDefinition est une entrée de catalogue, immuable par version
type LeaderboardDefinition struct {
	ID        string               `json:"id"`
	Version   int                  `json:"version"`
	Name      string               `json:"name"`
	Metrics   LeaderboardMetrics   `json:"metrics"`
	Display   LeaderboardDisplay   `json:"display"`
	Timeframe LeaderboardTimeframe `json:"timeframe"`
}

// HistoryRecord est un point d'historique borné d'une entrée de classement
type HistoryRecord struct {
	Date  time.Time `json:"date"`
	Rank  int       `json:"rank"`
	Score float64   `json:"score"`
}

// MaxHistoryRecords borne l'historique conservé par entrée de classement
const MaxHistoryRecords = 30

// LeaderboardEntry est la position d'un participant dans un classement.
// L'historique est borné aux MaxHistoryRecords points les plus récents.
type LeaderboardEntry struct {
	ParticipantID    string             `json:"participantId"`
	Rank             int                `json:"rank"`
	PreviousRank     int                `json:"previousRank,omitempty"` // 0 = jamais classé
	Score            float64            `json:"score"`
	PreviousScore    float64            `json:"previousScore,omitempty"`
	SecondaryMetrics map[string]float64 `json:"secondaryMetrics,omitempty"`
	RankChange       RankChange         `json:"rankChange"`
	History          []HistoryRecord    `json:"history,omitempty"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// Leaderboard est l'agrégat classement : toutes les entrées, retriées et
// retranchées ensemble à chaque mise à jour de score.
type Leaderboard struct {
	ID        string             `json:"id"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// EntryFor retourne l'entrée d'un participant, ou nil
func (l *Leaderboard) EntryFor(participantID string) *LeaderboardEntry {
	for i := range l.Entries {
		if l.Entries[i].ParticipantID == participantID {
			return &l.Entries[i]
		}
	}
	return nil
}
