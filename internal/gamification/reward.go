package gamification

import (
	"time"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// ApplyReward applique un lot de récompenses au profil dans la même mutation
// que l'événement déclencheur : points, expérience (avec passages de niveau
// en cascade), badge et titre. Retourne le LevelUp si l'expérience octroyée
// en a produit un.
func ApplyReward(p *model.Profile, reward model.Reward, source string, curve Curve, now time.Time) *model.LevelUp {
	if reward.Points > 0 {
		AddPoints(p, source, reward.Points, now)
	}

	var levelUp *model.LevelUp
	if reward.Experience > 0 {
		levelUp = ApplyExperience(p, reward.Experience, curve, now)
	}

	if reward.Badge != nil {
		GrantBadge(p, *reward.Badge, now)
	}

	if reward.Title != "" && !p.HasTitle(reward.Title) {
		p.Titles = append(p.Titles, reward.Title)
		p.UpdatedAt = now
	}

	return levelUp
}

// AddPoints crédite des points sur tous les compteurs et la ventilation par
// source. Invariant maintenu : Available <= Total.
func AddPoints(p *model.Profile, source string, amount int, now time.Time) {
	if p.Points.Breakdown == nil {
		p.Points.Breakdown = model.PointsBreakdown{}
	}
	p.Points.Total += amount
	p.Points.Available += amount
	p.Points.Lifetime += amount
	p.Points.Breakdown[source] += amount
	p.UpdatedAt = now
}

// GrantBadge attribue un badge, ou améliore son palier sur place. Un badge
// déjà gagné n'est jamais rétrogradé : un palier inférieur est ignoré.
func GrantBadge(p *model.Profile, grant model.BadgeGrant, now time.Time) bool {
	existing := p.BadgeFor(grant.BadgeID)
	if existing == nil {
		p.Badges = append(p.Badges, model.BadgeAward{
			BadgeID:  grant.BadgeID,
			Level:    grant.Level,
			EarnedAt: now,
			Progress: 100,
		})
		p.UpdatedAt = now
		return true
	}

	if grant.Level.Rank() > existing.Level.Rank() {
		existing.Level = grant.Level
		existing.EarnedAt = now
		p.UpdatedAt = now
		return true
	}
	return false
}
