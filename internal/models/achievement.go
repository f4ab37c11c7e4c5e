package model

import (
	"regexp"
	"time"
)

// Operator est l'opérateur de comparaison d'une condition
type Operator string

const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
	OpBetween  Operator = "between"
	OpRegex    Operator = "regex"
)

// RequirementType est la topologie de combinaison des conditions
type RequirementType string

const (
	ReqSingle   RequirementType = "single"
	ReqAllOf    RequirementType = "all_of"
	ReqAnyOf    RequirementType = "any_of"
	ReqSequence RequirementType = "sequence"
	ReqMultiple RequirementType = "multiple"
)

// VisibilityType contrôle si un achievement est visible avant d'être débloqué
type VisibilityType string

const (
	VisibilityVisible    VisibilityType = "visible"
	VisibilityUnlockable VisibilityType = "unlockable"
	VisibilitySecret     VisibilityType = "secret"
)

// ConditionValue est la valeur cible d'une condition, sous forme de variante
// taguée sélectionnée par l'opérateur. Un seul champ est renseigné, le choix
// est vérifié au chargement du catalogue (jamais à l'évaluation).
type ConditionValue struct {
	Number  *float64       `json:"number,omitempty"`
	Range   *[2]float64    `json:"range,omitempty"`
	Set     []string       `json:"set,omitempty"`
	Pattern string         `json:"pattern,omitempty"`
	Regexp  *regexp.Regexp `json:"-"`
}

// Condition est un test atomique champ+opérateur+valeur contribuant à la
// progression d'un achievement.
type Condition struct {
	ID        string         `json:"id"`
	Field     string         `json:"field"` // chemin connu du registre d'accès typé
	Operator  Operator       `json:"operator"`
	Value     ConditionValue `json:"value"`
	Weight    float64        `json:"weight"`
	Optional  bool           `json:"optional,omitempty"`
	Timeframe string         `json:"timeframe,omitempty"`
}

// Requirements décrit comment combiner les conditions d'un achievement
type Requirements struct {
	Type              RequirementType `json:"type"`
	Conditions        []Condition     `json:"conditions"`
	MinimumConditions int             `json:"minimumConditions,omitempty"` // requis pour any_of
	Sequence          []string        `json:"sequence,omitempty"`          // ids de conditions, pour sequence
	Dependencies      []string        `json:"dependencies,omitempty"`      // achievements à compléter avant
	Exclusions        []string        `json:"exclusions,omitempty"`        // achievements incompatibles
}

// BadgeGrant attribue (ou améliore) un badge dans une récompense
type BadgeGrant struct {
	BadgeID string     `json:"badgeId"`
	Level   BadgeLevel `json:"level"`
}

// Reward est un lot de récompenses : points, expérience, badge, titre
type Reward struct {
	Points     int         `json:"points,omitempty"`
	Experience int         `json:"experience,omitempty"`
	Badge      *BadgeGrant `json:"badge,omitempty"`
	Title      string      `json:"title,omitempty"`
}

// IsZero indique si la récompense est vide
func (r Reward) IsZero() bool {
	return r.Points == 0 && r.Experience == 0 && r.Badge == nil && r.Title == ""
}

// Rewards regroupe les récompenses d'un achievement. Les récompenses
// progressives sont portées par les jalons (Milestone.Reward).
type Rewards struct {
	Immediate Reward  `json:"immediate"`
	Special   *Reward `json:"special,omitempty"`
}

// Milestone est un jalon intermédiaire avec sa récompense progressive
type Milestone struct {
	Threshold float64 `json:"threshold"` // progression 0..100
	Reward    Reward  `json:"reward"`
}

// TimeConstraints encadre la disponibilité d'un achievement dans le temps
type TimeConstraints struct {
	AvailableFrom  *time.Time    `json:"availableFrom,omitempty"`
	AvailableUntil *time.Time    `json:"availableUntil,omitempty"`
	CooldownPeriod time.Duration `json:"cooldownPeriod,omitempty"` // 0 = pas de nouvelle tentative
	MaxAttempts    int           `json:"maxAttempts,omitempty"`    // 0 = illimité
}

// Visibility contrôle l'affichage et le déblocage d'un achievement
type Visibility struct {
	Type             VisibilityType `json:"type"`
	UnlockConditions []Condition    `json:"unlockConditions,omitempty"`
}

// AchievementDefinition est une entrée de catalogue, immuable par version.
// Les badges sont des achievements dont la récompense contient un BadgeGrant.
type AchievementDefinition struct {
	ID              string          `json:"id"`
	Version         int             `json:"version"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	Icon            string          `json:"icon,omitempty"`
	Active          bool            `json:"active"`
	Requirements    Requirements    `json:"requirements"`
	Milestones      []Milestone     `json:"milestones,omitempty"` // triés par seuil croissant
	Rewards         Rewards         `json:"rewards"`
	TimeConstraints TimeConstraints `json:"timeConstraints"`
	Visibility      Visibility      `json:"visibility"`
}

// ConditionByID retourne la condition portant cet id, ou nil
func (r *Requirements) ConditionByID(id string) *Condition {
	for i := range r.Conditions {
		if r.Conditions[i].ID == id {
			return &r.Conditions[i]
		}
	}
	return nil
}
