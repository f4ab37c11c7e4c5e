// Package leaderboard implémente le classement : upsert de score, re-tri
// stable complet, rangs 1-based, deltas de rang et historique borné.
package leaderboard

import (
	"sort"
	"time"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// Ranker applique les règles de tri d'une définition de classement à un
// agrégat Leaderboard. Sans état propre : tout vit dans l'agrégat.
type Ranker struct {
	def *model.LeaderboardDefinition
}

// NewRanker crée un ranker pour une définition de catalogue
func NewRanker(def *model.LeaderboardDefinition) *Ranker {
	return &Ranker{def: def}
}

// UpdateEntry insère ou met à jour l'entrée d'un participant puis rejoue le
// classement complet : tri stable, rangs, deltas, historique et troncature
// sortent tous de la même passe pour ne jamais diverger. Retourne une copie
// de l'entrée mise à jour avec son rang frais.
func (r *Ranker) UpdateEntry(lb *model.Leaderboard, participantID string, score float64, secondary map[string]float64, now time.Time) model.LeaderboardEntry {
	entry := lb.EntryFor(participantID)
	if entry == nil {
		lb.Entries = append(lb.Entries, model.LeaderboardEntry{
			ParticipantID: participantID,
			PreviousRank:  0, // jamais classé : delta "new"
		})
		entry = &lb.Entries[len(lb.Entries)-1]
	} else {
		entry.PreviousScore = entry.Score
		entry.PreviousRank = entry.Rank
	}

	entry.Score = score
	entry.SecondaryMetrics = secondary
	entry.UpdatedAt = now

	r.Recalculate(lb)

	// le tri déplace les valeurs dans la slice : on relocalise l'entrée
	entry = lb.EntryFor(participantID)
	entry.History = append(entry.History, model.HistoryRecord{
		Date:  now,
		Rank:  entry.Rank,
		Score: entry.Score,
	})
	if len(entry.History) > model.MaxHistoryRecords {
		entry.History = entry.History[len(entry.History)-model.MaxHistoryRecords:]
	}

	updated := *entry
	r.truncate(lb)
	lb.UpdatedAt = now
	return updated
}

// Recalculate retrie toutes les entrées et réassigne rangs et deltas.
// Idempotent sur un jeu d'entrées inchangé : les rangs et les deltas ne
// dérivent pas si on le rejoue.
func (r *Ranker) Recalculate(lb *model.Leaderboard) {
	sort.SliceStable(lb.Entries, func(i, j int) bool {
		return r.less(&lb.Entries[i], &lb.Entries[j])
	})

	for i := range lb.Entries {
		entry := &lb.Entries[i]
		entry.Rank = i + 1
		entry.RankChange = classifyRankChange(entry.PreviousRank, entry.Rank)
	}
}

// less ordonne par score principal décroissant puis, à égalité exacte, par
// les métriques secondaires dans l'ordre de déclaration. Convention : la
// valeur la plus haute gagne toujours, le poids ne pondère que la magnitude
// de l'écart, jamais sa direction. À épuisement des métriques l'ordre
// d'insertion est conservé (tri stable).
func (r *Ranker) less(a, b *model.LeaderboardEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	for _, metric := range r.def.Metrics.Secondary {
		diff := (a.SecondaryMetrics[metric.Field] - b.SecondaryMetrics[metric.Field]) * metric.Weight
		if diff != 0 {
			return diff > 0
		}
	}
	return false
}

// truncate retranche les entrées au-delà de MaxEntries : les moins bien
// classées sont supprimées, pas seulement masquées
func (r *Ranker) truncate(lb *model.Leaderboard) {
	max := r.def.Display.MaxEntries
	if max > 0 && len(lb.Entries) > max {
		lb.Entries = lb.Entries[:max]
	}
}

func classifyRankChange(previous, current int) model.RankChange {
	switch {
	case previous == 0:
		return model.RankNew
	case current < previous:
		return model.RankUp
	case current > previous:
		return model.RankDown
	default:
		return model.RankSame
	}
}
