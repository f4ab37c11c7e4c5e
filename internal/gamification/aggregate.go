package gamification

import (
	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// AggregateProgress combine les scores par condition en une progression unique
// 0..100 selon la topologie de l'achievement. Topologie inconnue ou liste de
// conditions vide : 0, jamais d'erreur (le catalogue a validé en amont).
func AggregateProgress(p *model.Profile, req *model.Requirements) float64 {
	if len(req.Conditions) == 0 {
		return 0
	}

	switch req.Type {
	case model.ReqSingle:
		return EvaluateCondition(p, &req.Conditions[0])
	case model.ReqAllOf:
		return aggregateAllOf(p, req)
	case model.ReqAnyOf:
		return aggregateAnyOf(p, req)
	case model.ReqSequence:
		return aggregateSequence(p, req)
	case model.ReqMultiple:
		return aggregateMultiple(p, req)
	}
	return 0
}

// aggregateAllOf : moyenne pondérée des conditions requises. Les conditions
// optionnelles apportent du crédit partiel quand elles avancent mais ne
// tirent jamais la progression vers le bas.
func aggregateAllOf(p *model.Profile, req *model.Requirements) float64 {
	var sum, totalWeight float64

	for i := range req.Conditions {
		cond := &req.Conditions[i]
		score := EvaluateCondition(p, cond)
		w := conditionWeight(cond)

		if cond.Optional && score <= 0 {
			continue
		}
		sum += score * w
		totalWeight += w
	}

	if totalWeight == 0 {
		return 0
	}
	return clampScore(sum / totalWeight)
}

// aggregateAnyOf : proportion de conditions pleinement satisfaites sur le
// minimum demandé
func aggregateAnyOf(p *model.Profile, req *model.Requirements) float64 {
	if req.MinimumConditions <= 0 {
		return 0
	}

	completed := 0
	for i := range req.Conditions {
		if EvaluateCondition(p, &req.Conditions[i]) >= 100 {
			completed++
		}
	}
	return minFloat(float64(completed)/float64(req.MinimumConditions)*100, 100)
}

// aggregateSequence : les conditions doivent se compléter dans l'ordre
// déclaré. La progression est le plus long préfixe complété ; un trou stoppe
// tout crédit, même si des conditions plus loin sont satisfaites.
func aggregateSequence(p *model.Profile, req *model.Requirements) float64 {
	if len(req.Sequence) == 0 {
		return 0
	}

	prefix := 0
	for _, condID := range req.Sequence {
		cond := req.ConditionByID(condID)
		if cond == nil || EvaluateCondition(p, cond) < 100 {
			break
		}
		prefix++
	}
	return float64(prefix) / float64(len(req.Sequence)) * 100
}

// aggregateMultiple : les conditions requises pèsent 80% de la progression,
// les optionnelles se partagent les 20% restants au prorata de leur poids.
// Sans condition optionnelle, les requises portent la progression entière.
func aggregateMultiple(p *model.Profile, req *model.Requirements) float64 {
	var reqSum, reqWeight, optSum, optWeight float64

	for i := range req.Conditions {
		cond := &req.Conditions[i]
		score := EvaluateCondition(p, cond)
		w := conditionWeight(cond)

		if cond.Optional {
			optSum += score * w
			optWeight += w
		} else {
			reqSum += score * w
			reqWeight += w
		}
	}

	reqAvg := float64(0)
	if reqWeight > 0 {
		reqAvg = reqSum / reqWeight
	}
	optAvg := float64(0)
	if optWeight > 0 {
		optAvg = optSum / optWeight
	}

	if optWeight == 0 {
		return clampScore(reqAvg)
	}
	if reqWeight == 0 {
		return clampScore(optAvg)
	}
	return clampScore(reqAvg*0.8 + optAvg*0.2)
}

// NextMilestone retourne le premier jalon non atteint par seuil croissant,
// pour l'affichage côté client. nil si tous les jalons sont atteints.
func NextMilestone(milestones []model.Milestone, progress float64) *model.Milestone {
	var next *model.Milestone
	for i := range milestones {
		m := &milestones[i]
		if m.Threshold <= progress {
			continue
		}
		if next == nil || m.Threshold < next.Threshold {
			next = m
		}
	}
	if next == nil {
		return nil
	}
	copied := *next
	return &copied
}

func conditionWeight(cond *model.Condition) float64 {
	if cond.Weight <= 0 {
		return 1
	}
	return cond.Weight
}
