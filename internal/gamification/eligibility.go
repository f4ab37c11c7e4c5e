package gamification

import (
	"time"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// ResolveEligibility déroule la machine à états d'un achievement pour un
// profil : Locked -> Blocked -> InProgress -> Eligible -> Completed. Lecture
// seule sur le profil, tous les blocages sont remontés (pas seulement le
// premier) pour l'affichage côté client.
func ResolveEligibility(p *model.Profile, def *model.AchievementDefinition, now time.Time) model.EligibilityResult {
	result := model.EligibilityResult{AchievementID: def.ID}
	existing := p.AchievementFor(def.ID)

	// Court-circuit : un achievement complété ne ré-évalue jamais ses
	// conditions, la progression ne régresse pas après complétion.
	if existing != nil && existing.Completed {
		if def.TimeConstraints.CooldownPeriod <= 0 {
			result.State = model.StateCompleted
			result.Progress = existing.Progress
			return result
		}
		if !cooldownExpired(existing, def.TimeConstraints.CooldownPeriod, now) {
			result.State = model.StateBlocked
			result.Progress = existing.Progress
			result.Blockers = []model.BlockerCode{model.BlockerCooldownActive}
			return result
		}
		// cooldown écoulé : l'achievement redevient tentable, on retombe
		// dans l'évaluation normale ci-dessous
	}

	if locked(p, def) {
		result.State = model.StateLocked
		return result
	}

	blockers := collectBlockers(p, def, existing, now)
	progress := AggregateProgress(p, &def.Requirements)
	result.Progress = progress
	result.NextMilestone = NextMilestone(def.Milestones, progress)

	if len(blockers) > 0 {
		result.State = model.StateBlocked
		result.Blockers = blockers
		return result
	}

	if progress >= 100 {
		result.State = model.StateEligible
		result.Eligible = true
		return result
	}

	result.State = model.StateInProgress
	return result
}

// locked vérifie les conditions de déblocage des achievements unlockable ou
// secret : toutes doivent être pleinement satisfaites
func locked(p *model.Profile, def *model.AchievementDefinition) bool {
	if def.Visibility.Type != model.VisibilityUnlockable && def.Visibility.Type != model.VisibilitySecret {
		return false
	}
	for i := range def.Visibility.UnlockConditions {
		if EvaluateCondition(p, &def.Visibility.UnlockConditions[i]) < 100 {
			return true
		}
	}
	return false
}

func collectBlockers(p *model.Profile, def *model.AchievementDefinition, existing *model.AchievementProgress, now time.Time) []model.BlockerCode {
	var blockers []model.BlockerCode
	tc := def.TimeConstraints

	if !def.Active {
		blockers = append(blockers, model.BlockerInactive)
	}
	if tc.AvailableFrom != nil && now.Before(*tc.AvailableFrom) {
		blockers = append(blockers, model.BlockerNotYetAvailable)
	}
	if tc.AvailableUntil != nil && now.After(*tc.AvailableUntil) {
		blockers = append(blockers, model.BlockerExpired)
	}
	if existing != nil && tc.CooldownPeriod > 0 && !existing.Completed &&
		!cooldownExpired(existing, tc.CooldownPeriod, now) {
		blockers = append(blockers, model.BlockerCooldownActive)
	}
	if tc.MaxAttempts > 0 && existing != nil && existing.Attempts >= tc.MaxAttempts {
		blockers = append(blockers, model.BlockerMaxAttemptsReached)
	}
	for _, depID := range def.Requirements.Dependencies {
		dep := p.AchievementFor(depID)
		if dep == nil || !dep.Completed {
			blockers = append(blockers, model.BlockerDependencyIncomplete)
			break
		}
	}
	for _, exclID := range def.Requirements.Exclusions {
		if excl := p.AchievementFor(exclID); excl != nil && excl.Completed {
			blockers = append(blockers, model.BlockerExclusionCompleted)
			break
		}
	}
	return blockers
}

// cooldownExpired compare la dernière tentative (ou la complétion) à la
// fenêtre de cooldown. Sans tentative enregistrée, rien ne bloque.
func cooldownExpired(progress *model.AchievementProgress, cooldown time.Duration, now time.Time) bool {
	ref := progress.LastAttemptAt
	if ref == nil {
		ref = progress.CompletedAt
	}
	if ref == nil {
		return true
	}
	return !now.Before(ref.Add(cooldown))
}
