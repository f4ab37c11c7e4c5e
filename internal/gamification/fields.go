package gamification

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// FieldKind est le type de valeur produit par un accesseur
type FieldKind int

const (
	FieldNumber FieldKind = iota
	FieldText
	FieldList
)

// FieldValue est la valeur d'un champ de profil, lue par un accesseur typé.
// Un chemin absent (streak inexistant, source de points inconnue...) produit
// un FieldNumber à 0, jamais une erreur.
type FieldValue struct {
	Kind   FieldKind
	Number float64
	Text   string
	List   []string
}

// NumberValue construit une valeur numérique
func NumberValue(n float64) FieldValue { return FieldValue{Kind: FieldNumber, Number: n} }

// TextValue construit une valeur texte
func TextValue(s string) FieldValue { return FieldValue{Kind: FieldText, Text: s} }

// ListValue construit une valeur liste
func ListValue(items []string) FieldValue { return FieldValue{Kind: FieldList, List: items} }

// String retourne la forme texte de la valeur, utilisée par regex et contains
func (v FieldValue) String() string {
	switch v.Kind {
	case FieldText:
		return v.Text
	case FieldList:
		return strings.Join(v.List, ",")
	default:
		return trimFloat(v.Number)
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

// FieldGetter lit une valeur typée sur un profil
type FieldGetter func(p *model.Profile) FieldValue

// getterCache borne le registre d'accesseurs résolus. Les chemins viennent du
// catalogue, l'ensemble est petit et stable : le cache évite juste de
// re-résoudre à chaque évaluation de condition.
var getterCache, _ = lru.New[string, FieldGetter](256)

// ResolveField transforme un chemin pointé ("points.total",
// "streaks.daily_activity.count"...) en accesseur typé. Les chemins sont
// validés au chargement du catalogue : un chemin inconnu est une erreur de
// définition, pas une erreur d'évaluation.
func ResolveField(path string) (FieldGetter, error) {
	if getter, ok := getterCache.Get(path); ok {
		return getter, nil
	}
	getter, err := resolveField(path)
	if err != nil {
		return nil, err
	}
	getterCache.Add(path, getter)
	return getter, nil
}

func resolveField(path string) (FieldGetter, error) {
	parts := strings.Split(path, ".")

	switch parts[0] {
	case "points":
		return resolvePoints(path, parts)
	case "level":
		return resolveLevel(path, parts)
	case "badges":
		return resolveBadges(path, parts)
	case "titles":
		if len(parts) == 1 {
			return func(p *model.Profile) FieldValue { return ListValue(p.Titles) }, nil
		}
	case "achievements":
		return resolveAchievements(path, parts)
	case "streaks":
		return resolveStreaks(path, parts)
	case "streakRecord":
		if len(parts) == 2 && parts[1] == "longest" {
			return func(p *model.Profile) FieldValue {
				return NumberValue(float64(p.StreakRecord.Longest))
			}, nil
		}
	}
	return nil, fmt.Errorf("unknown profile field path %q", path)
}

func resolvePoints(path string, parts []string) (FieldGetter, error) {
	if len(parts) == 2 {
		switch parts[1] {
		case "total":
			return func(p *model.Profile) FieldValue { return NumberValue(float64(p.Points.Total)) }, nil
		case "available":
			return func(p *model.Profile) FieldValue { return NumberValue(float64(p.Points.Available)) }, nil
		case "lifetime":
			return func(p *model.Profile) FieldValue { return NumberValue(float64(p.Points.Lifetime)) }, nil
		}
	}
	if len(parts) == 3 && parts[1] == "breakdown" {
		source := parts[2]
		return func(p *model.Profile) FieldValue {
			return NumberValue(float64(p.Points.Breakdown[source]))
		}, nil
	}
	return nil, fmt.Errorf("unknown points field path %q", path)
}

func resolveLevel(path string, parts []string) (FieldGetter, error) {
	if len(parts) == 2 {
		switch parts[1] {
		case "current":
			return func(p *model.Profile) FieldValue { return NumberValue(float64(p.Level.Current)) }, nil
		case "experience":
			return func(p *model.Profile) FieldValue { return NumberValue(float64(p.Level.Experience)) }, nil
		case "title":
			return func(p *model.Profile) FieldValue { return TextValue(p.Level.Title) }, nil
		}
	}
	return nil, fmt.Errorf("unknown level field path %q", path)
}

func resolveBadges(path string, parts []string) (FieldGetter, error) {
	if len(parts) == 1 {
		return func(p *model.Profile) FieldValue {
			ids := make([]string, 0, len(p.Badges))
			for _, b := range p.Badges {
				ids = append(ids, b.BadgeID)
			}
			return ListValue(ids)
		}, nil
	}
	if len(parts) == 2 && parts[1] == "count" {
		return func(p *model.Profile) FieldValue { return NumberValue(float64(len(p.Badges))) }, nil
	}
	return nil, fmt.Errorf("unknown badges field path %q", path)
}

func resolveAchievements(path string, parts []string) (FieldGetter, error) {
	if len(parts) == 2 && parts[1] == "completed" {
		return func(p *model.Profile) FieldValue {
			completed := 0
			for _, a := range p.Achievements {
				if a.Completed {
					completed++
				}
			}
			return NumberValue(float64(completed))
		}, nil
	}
	if len(parts) == 3 && parts[2] == "progress" {
		id := parts[1]
		return func(p *model.Profile) FieldValue {
			if ap := p.AchievementFor(id); ap != nil {
				return NumberValue(ap.Progress)
			}
			return NumberValue(0)
		}, nil
	}
	return nil, fmt.Errorf("unknown achievements field path %q", path)
}

func resolveStreaks(path string, parts []string) (FieldGetter, error) {
	if len(parts) != 3 {
		return nil, fmt.Errorf("unknown streaks field path %q", path)
	}
	streakType := parts[1]
	switch parts[2] {
	case "count":
		return func(p *model.Profile) FieldValue {
			if s := p.StreakFor(streakType); s != nil {
				return NumberValue(float64(s.Count))
			}
			return NumberValue(0)
		}, nil
	case "multiplier":
		return func(p *model.Profile) FieldValue {
			if s := p.StreakFor(streakType); s != nil {
				return NumberValue(s.Multiplier)
			}
			return NumberValue(0)
		}, nil
	}
	return nil, fmt.Errorf("unknown streaks field path %q", path)
}
