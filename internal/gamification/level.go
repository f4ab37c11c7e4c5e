package gamification

import (
	"math"
	"time"

	"github.com/google/uuid"
	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// Curve donne l'expérience requise pour passer du niveau donné au suivant.
// Injectée pour les tests, DefaultCurve en production.
type Curve func(level int) int

// DefaultCurve : courbe exponentielle floor(100 * 1.2^(niveau-1))
func DefaultCurve(level int) int {
	return int(math.Floor(100 * math.Pow(1.2, float64(level-1))))
}

// BonusForLevel : points bonus crédités à chaque passage de niveau
func BonusForLevel(level int) int {
	return level * 10
}

// levelUnlocks associe certains niveaux à des éléments de personnalisation
// débloqués. Piloté par table, pas par branchements.
var levelUnlocks = map[int][]string{
	5:   {"avatar_pack_explorer"},
	10:  {"theme_rainbow", "avatar_pack_animals"},
	25:  {"theme_ocean", "avatar_pack_scientist"},
	50:  {"theme_galaxy", "avatar_frame_gold"},
	75:  {"avatar_pack_legends"},
	100: {"theme_aurora", "avatar_frame_diamond"},
}

// levelTitles associe des paliers de niveau à un titre affiché, du plus haut
// au plus bas
var levelTitles = []struct {
	Min   int
	Title string
}{
	{100, "Grand Master"},
	{75, "Brainiac"},
	{50, "Learning Hero"},
	{35, "Quiz Whiz"},
	{20, "Knowledge Seeker"},
	{10, "Bright Star"},
	{5, "Curious Explorer"},
	{1, "Little Sprout"},
}

// TitleForLevel retourne le titre affiché pour un niveau donné
func TitleForLevel(level int) string {
	for _, t := range levelTitles {
		if level >= t.Min {
			return t.Title
		}
	}
	return levelTitles[len(levelTitles)-1].Title
}

// ApplyExperience crédite de l'expérience et boucle les passages de niveau
// tant que le seuil courant est atteint. Chaque niveau traversé produit son
// entrée d'historique et son bonus de points : un gros octroi peut faire
// gagner plusieurs niveaux dans le même appel. Post-condition garantie :
// Experience < ExperienceToNext.
//
// Retourne nil si aucun niveau n'a été gagné.
func ApplyExperience(p *model.Profile, amount int, curve Curve, now time.Time) *model.LevelUp {
	if curve == nil {
		curve = DefaultCurve
	}

	p.Level.Experience += amount
	p.Level.ExperienceToNext = curve(p.Level.Current)

	startLevel := p.Level.Current
	var levelUp *model.LevelUp

	for p.Level.Experience >= p.Level.ExperienceToNext {
		p.Level.Experience -= p.Level.ExperienceToNext
		p.Level.Current++
		p.Level.ExperienceToNext = curve(p.Level.Current)

		bonus := BonusForLevel(p.Level.Current)
		p.Points.Total += bonus
		p.Points.Available += bonus
		p.Points.Lifetime += bonus
		if p.Points.Breakdown == nil {
			p.Points.Breakdown = model.PointsBreakdown{}
		}
		p.Points.Breakdown["bonus"] += bonus

		unlocks := levelUnlocks[p.Level.Current]
		entry := model.LevelHistoryEntry{
			ID:          uuid.NewString(),
			Level:       p.Level.Current,
			BonusPoints: bonus,
			Unlocks:     unlocks,
			ReachedAt:   now,
		}
		p.LevelHistory = append(p.LevelHistory, entry)

		if levelUp == nil {
			levelUp = &model.LevelUp{From: startLevel}
		}
		levelUp.To = p.Level.Current
		levelUp.BonusPoints += bonus
		levelUp.Unlocks = append(levelUp.Unlocks, unlocks...)
		levelUp.Steps = append(levelUp.Steps, entry)
	}

	p.Level.Title = TitleForLevel(p.Level.Current)
	p.UpdatedAt = now
	return levelUp
}
