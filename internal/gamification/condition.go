package gamification

import (
	"strings"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// EvaluateCondition évalue une condition atomique contre un profil et retourne
// un score de satisfaction continu dans [0,100]. Aucune erreur possible : un
// chemin ou une valeur invalide (normalement interceptés au chargement du
// catalogue) dégradent à 0.
func EvaluateCondition(p *model.Profile, cond *model.Condition) float64 {
	getter, err := ResolveField(cond.Field)
	if err != nil {
		return 0
	}
	return scoreCondition(getter(p), cond)
}

// scoreCondition applique la sémantique de l'opérateur. Note : gt/gte donnent
// un crédit partiel linéaire, lt/lte restent binaires. L'asymétrie est voulue.
func scoreCondition(fv FieldValue, cond *model.Condition) float64 {
	var score float64

	switch cond.Operator {
	case model.OpEq:
		score = equalityScore(fv, cond)
	case model.OpNe:
		score = 100 - equalityScore(fv, cond)
	case model.OpGt:
		target := targetNumber(cond)
		if fv.Number > target {
			score = 100
		} else {
			// crédit partiel, plafonné à 99 : 100 exige de dépasser strictement
			score = minFloat(safeRatio(fv.Number, target)*100, 99)
		}
	case model.OpGte:
		target := targetNumber(cond)
		if fv.Number >= target {
			score = 100
		} else {
			score = safeRatio(fv.Number, target) * 100
		}
	case model.OpLt:
		if fv.Number < targetNumber(cond) {
			score = 100
		}
	case model.OpLte:
		if fv.Number <= targetNumber(cond) {
			score = 100
		}
	case model.OpIn:
		needle := fv.String()
		for _, candidate := range cond.Value.Set {
			if candidate == needle {
				score = 100
				break
			}
		}
	case model.OpContains:
		score = containsScore(fv, cond)
	case model.OpBetween:
		score = betweenScore(fv.Number, cond)
	case model.OpRegex:
		if cond.Value.Regexp != nil && cond.Value.Regexp.MatchString(fv.String()) {
			score = 100
		}
	}

	return clampScore(score)
}

// equalityScore compare la valeur du champ à la cible : numérique si la
// définition porte un nombre, textuelle sinon
func equalityScore(fv FieldValue, cond *model.Condition) float64 {
	if cond.Value.Number != nil {
		if fv.Number == *cond.Value.Number {
			return 100
		}
		return 0
	}
	if fv.String() == cond.Value.Pattern {
		return 100
	}
	return 0
}

// containsScore : pour un champ liste, pourcentage des éléments requis
// présents ; pour un champ scalaire, correspondance de sous-chaîne binaire
func containsScore(fv FieldValue, cond *model.Condition) float64 {
	required := cond.Value.Set
	if len(required) == 0 {
		return 0
	}

	if fv.Kind == FieldList {
		present := 0
		for _, want := range required {
			for _, have := range fv.List {
				if have == want {
					present++
					break
				}
			}
		}
		return float64(present) / float64(len(required)) * 100
	}

	if strings.Contains(fv.String(), required[0]) {
		return 100
	}
	return 0
}

// betweenScore : 100 dans l'intervalle, rampe linéaire plafonnée à 50 de
// chaque côté en dehors
func betweenScore(v float64, cond *model.Condition) float64 {
	if cond.Value.Range == nil {
		return 0
	}
	lo, hi := cond.Value.Range[0], cond.Value.Range[1]

	if v >= lo && v <= hi {
		return 100
	}
	if v < lo {
		return clampRange(safeRatio(v, lo)*50, 0, 50)
	}
	if hi <= 0 {
		return 0
	}
	return clampRange((1-(v-hi)/hi)*50, 0, 50)
}

func targetNumber(cond *model.Condition) float64 {
	if cond.Value.Number != nil {
		return *cond.Value.Number
	}
	return 0
}

// safeRatio évite la division par zéro : un seuil nul ne donne aucun crédit
// partiel, seule l'atteinte pleine compte
func safeRatio(v, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}
	if v <= 0 {
		return 0
	}
	return v / threshold
}

func clampScore(s float64) float64 {
	return clampRange(s, 0, 100)
}

func clampRange(s, lo, hi float64) float64 {
	if s < lo {
		return lo
	}
	if s > hi {
		return hi
	}
	return s
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
