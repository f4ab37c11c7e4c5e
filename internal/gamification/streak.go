package gamification

import (
	"time"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

const (
	// MaxStreakMultiplier plafonne le multiplicateur de streak
	MaxStreakMultiplier = 3.0
	// streakMultiplierStep est le gain de multiplicateur à chaque palier
	streakMultiplierStep = 0.1
	// streakMilestoneDays : un palier tous les 7 incréments
	streakMilestoneDays = 7
)

// ApplyStreak met à jour le streak d'un type donné en classant l'événement
// par écart en jours calendaires depuis la dernière mise à jour :
// 0 jour = no-op idempotent, 1 jour = continuation, >1 jour = remise à zéro.
// L'horloge est fournie par l'appelant pour rester testable.
func ApplyStreak(p *model.Profile, streakType string, today time.Time) (model.Streak, model.StreakOutcome) {
	streak := p.StreakFor(streakType)
	if streak == nil {
		p.Streaks = append(p.Streaks, model.Streak{
			Type:       streakType,
			Count:      1,
			StartDate:  today,
			LastUpdate: today,
			Multiplier: 1,
		})
		streak = &p.Streaks[len(p.Streaks)-1]
		updateStreakRecord(p, streak)
		p.UpdatedAt = today
		return *streak, model.StreakStarted
	}

	outcome := model.StreakUnchanged
	switch diff := daysBetween(streak.LastUpdate, today); {
	case diff <= 0:
		// même jour (ou horloge en retard) : rien ne bouge
	case diff == 1:
		streak.Count++
		streak.LastUpdate = today
		if streak.Count%streakMilestoneDays == 0 {
			streak.Multiplier = minFloat(streak.Multiplier+streakMultiplierStep, MaxStreakMultiplier)
		}
		outcome = model.StreakContinued
	default:
		streak.Count = 1
		streak.StartDate = today
		streak.LastUpdate = today
		streak.Multiplier = 1
		outcome = model.StreakReset
	}

	if outcome != model.StreakUnchanged {
		updateStreakRecord(p, streak)
		p.UpdatedAt = today
	}
	return *streak, outcome
}

// updateStreakRecord met à jour le record global dès qu'un streak dépasse le
// meilleur enregistré, quel que soit son type
func updateStreakRecord(p *model.Profile, streak *model.Streak) {
	if streak.Count <= p.StreakRecord.Longest {
		return
	}
	start := streak.StartDate
	end := streak.LastUpdate
	p.StreakRecord = model.StreakRecord{
		Longest:      streak.Count,
		LongestType:  streak.Type,
		LongestStart: &start,
		LongestEnd:   &end,
	}
}

// daysBetween compte les jours calendaires entiers entre deux instants,
// en tronquant chacun à minuit UTC pour ignorer l'heure de la journée
func daysBetween(from, to time.Time) int {
	fromDay := truncateToDay(from)
	toDay := truncateToDay(to)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
