package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/gamification"
	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// Structures brutes du format YAML. La valeur d'une condition arrive en
// `any` et devient une variante taguée pendant la compilation.

type catalogFile struct {
	Version      int              `yaml:"version"`
	Achievements []rawAchievement `yaml:"achievements"`
	Leaderboards []rawLeaderboard `yaml:"leaderboards"`
}

type rawCondition struct {
	ID        string      `yaml:"id"`
	Field     string      `yaml:"field"`
	Operator  string      `yaml:"operator"`
	Value     interface{} `yaml:"value"`
	Weight    float64     `yaml:"weight"`
	Optional  bool        `yaml:"optional"`
	Timeframe string      `yaml:"timeframe"`
}

type rawRequirements struct {
	Type              string         `yaml:"type"`
	Conditions        []rawCondition `yaml:"conditions"`
	MinimumConditions int            `yaml:"minimumConditions"`
	Sequence          []string       `yaml:"sequence"`
	Dependencies      []string       `yaml:"dependencies"`
	Exclusions        []string       `yaml:"exclusions"`
}

type rawBadge struct {
	ID    string `yaml:"id"`
	Level string `yaml:"level"`
}

type rawReward struct {
	Points     int       `yaml:"points"`
	Experience int       `yaml:"experience"`
	Badge      *rawBadge `yaml:"badge"`
	Title      string    `yaml:"title"`
}

type rawMilestone struct {
	Threshold float64   `yaml:"threshold"`
	Reward    rawReward `yaml:"reward"`
}

type rawRewards struct {
	Immediate rawReward  `yaml:"immediate"`
	Special   *rawReward `yaml:"special"`
}

type rawTimeConstraints struct {
	AvailableFrom  string `yaml:"availableFrom"`
	AvailableUntil string `yaml:"availableUntil"`
	CooldownPeriod string `yaml:"cooldownPeriod"`
	MaxAttempts    int    `yaml:"maxAttempts"`
}

type rawVisibility struct {
	Type             string         `yaml:"type"`
	UnlockConditions []rawCondition `yaml:"unlockConditions"`
}

type rawAchievement struct {
	ID              string             `yaml:"id"`
	Version         int                `yaml:"version"`
	Name            string             `yaml:"name"`
	Description     string             `yaml:"description"`
	Category        string             `yaml:"category"`
	Icon            string             `yaml:"icon"`
	Active          *bool              `yaml:"active"`
	Requirements    rawRequirements    `yaml:"requirements"`
	Milestones      []rawMilestone     `yaml:"milestones"`
	Rewards         rawRewards         `yaml:"rewards"`
	TimeConstraints rawTimeConstraints `yaml:"timeConstraints"`
	Visibility      rawVisibility      `yaml:"visibility"`
}

type rawMetricSpec struct {
	Field       string `yaml:"field"`
	Aggregation string `yaml:"aggregation"`
}

type rawSecondaryMetric struct {
	Field  string  `yaml:"field"`
	Weight float64 `yaml:"weight"`
}

type rawLeaderboard struct {
	ID      string `yaml:"id"`
	Version int    `yaml:"version"`
	Name    string `yaml:"name"`
	Metrics struct {
		Primary   rawMetricSpec        `yaml:"primary"`
		Secondary []rawSecondaryMetric `yaml:"secondary"`
	} `yaml:"metrics"`
	Display struct {
		MaxEntries int `yaml:"maxEntries"`
	} `yaml:"display"`
	Timeframe struct {
		ResetSchedule string `yaml:"resetSchedule"`
	} `yaml:"timeframe"`
}

// LoadBytes décode un document YAML de catalogue et intègre les définitions
// valides. Chaque définition invalide produit une DefinitionError et est
// ignorée sans bloquer les autres.
func (c *Catalog) LoadBytes(data []byte) []error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return []error{fmt.Errorf("could not parse catalog yaml: %w", err)}
	}

	var errs []error
	for _, raw := range file.Achievements {
		def, err := compileAchievement(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.addAchievement(def)
	}
	for _, raw := range file.Leaderboards {
		def, err := compileLeaderboard(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.addLeaderboard(def)
	}
	return errs
}

func compileAchievement(raw rawAchievement) (model.AchievementDefinition, error) {
	var def model.AchievementDefinition
	fail := func(reason string) (model.AchievementDefinition, error) {
		return def, &gamification.DefinitionError{DefinitionID: raw.ID, Reason: reason}
	}

	if raw.ID == "" {
		return fail("missing id")
	}
	if raw.Name == "" {
		return fail("missing name")
	}

	requirements, err := compileRequirements(raw.Requirements)
	if err != nil {
		return fail(err.Error())
	}

	milestones := make([]model.Milestone, 0, len(raw.Milestones))
	for _, m := range raw.Milestones {
		if m.Threshold <= 0 || m.Threshold > 100 {
			return fail(fmt.Sprintf("milestone threshold %v out of (0,100]", m.Threshold))
		}
		reward, err := compileReward(m.Reward)
		if err != nil {
			return fail(err.Error())
		}
		milestones = append(milestones, model.Milestone{Threshold: m.Threshold, Reward: reward})
	}
	sort.Slice(milestones, func(i, j int) bool { return milestones[i].Threshold < milestones[j].Threshold })

	immediate, err := compileReward(raw.Rewards.Immediate)
	if err != nil {
		return fail(err.Error())
	}
	var special *model.Reward
	if raw.Rewards.Special != nil {
		r, err := compileReward(*raw.Rewards.Special)
		if err != nil {
			return fail(err.Error())
		}
		special = &r
	}

	constraints, err := compileTimeConstraints(raw.TimeConstraints)
	if err != nil {
		return fail(err.Error())
	}

	visibility, err := compileVisibility(raw.Visibility)
	if err != nil {
		return fail(err.Error())
	}

	active := true
	if raw.Active != nil {
		active = *raw.Active
	}
	version := raw.Version
	if version <= 0 {
		version = 1
	}

	def = model.AchievementDefinition{
		ID:              raw.ID,
		Version:         version,
		Name:            raw.Name,
		Description:     raw.Description,
		Category:        raw.Category,
		Icon:            raw.Icon,
		Active:          active,
		Requirements:    requirements,
		Milestones:      milestones,
		Rewards:         model.Rewards{Immediate: immediate, Special: special},
		TimeConstraints: constraints,
		Visibility:      visibility,
	}
	return def, nil
}

func compileRequirements(raw rawRequirements) (model.Requirements, error) {
	var req model.Requirements

	reqType := model.RequirementType(raw.Type)
	switch reqType {
	case model.ReqSingle, model.ReqAllOf, model.ReqAnyOf, model.ReqSequence, model.ReqMultiple:
	default:
		return req, fmt.Errorf("unknown requirement type %q", raw.Type)
	}

	if len(raw.Conditions) == 0 {
		return req, fmt.Errorf("requirements need at least one condition")
	}

	conditions := make([]model.Condition, 0, len(raw.Conditions))
	seen := make(map[string]bool)
	for _, rc := range raw.Conditions {
		cond, err := compileCondition(rc)
		if err != nil {
			return req, err
		}
		if seen[cond.ID] {
			return req, fmt.Errorf("duplicate condition id %q", cond.ID)
		}
		seen[cond.ID] = true
		conditions = append(conditions, cond)
	}

	switch reqType {
	case model.ReqAnyOf:
		if raw.MinimumConditions < 1 || raw.MinimumConditions > len(conditions) {
			return req, fmt.Errorf("any_of needs minimumConditions between 1 and %d", len(conditions))
		}
	case model.ReqSequence:
		if len(raw.Sequence) == 0 {
			return req, fmt.Errorf("sequence needs a declared condition order")
		}
		for _, id := range raw.Sequence {
			if !seen[id] {
				return req, fmt.Errorf("sequence references unknown condition %q", id)
			}
		}
	}

	req = model.Requirements{
		Type:              reqType,
		Conditions:        conditions,
		MinimumConditions: raw.MinimumConditions,
		Sequence:          raw.Sequence,
		Dependencies:      raw.Dependencies,
		Exclusions:        raw.Exclusions,
	}
	return req, nil
}

// compileCondition vérifie le chemin de champ et transforme la valeur `any`
// en variante taguée selon l'opérateur. C'est ici que les définitions mal
// formées échouent, jamais à l'évaluation.
func compileCondition(raw rawCondition) (model.Condition, error) {
	var cond model.Condition

	if raw.ID == "" {
		return cond, fmt.Errorf("condition missing id")
	}
	if _, err := gamification.ResolveField(raw.Field); err != nil {
		return cond, fmt.Errorf("condition %s: %w", raw.ID, err)
	}

	op := model.Operator(raw.Operator)
	value, err := compileValue(op, raw.Value)
	if err != nil {
		return cond, fmt.Errorf("condition %s: %w", raw.ID, err)
	}

	weight := raw.Weight
	if weight <= 0 {
		weight = 1
	}

	cond = model.Condition{
		ID:        raw.ID,
		Field:     raw.Field,
		Operator:  op,
		Value:     value,
		Weight:    weight,
		Optional:  raw.Optional,
		Timeframe: raw.Timeframe,
	}
	return cond, nil
}

func compileValue(op model.Operator, raw interface{}) (model.ConditionValue, error) {
	var value model.ConditionValue

	switch op {
	case model.OpEq, model.OpNe:
		if n, ok := asNumber(raw); ok {
			value.Number = &n
			return value, nil
		}
		if s, ok := raw.(string); ok {
			value.Pattern = s
			return value, nil
		}
		return value, fmt.Errorf("operator %s needs a number or string value", op)

	case model.OpGt, model.OpGte, model.OpLt, model.OpLte:
		n, ok := asNumber(raw)
		if !ok {
			return value, fmt.Errorf("operator %s needs a numeric value", op)
		}
		value.Number = &n
		return value, nil

	case model.OpIn, model.OpContains:
		if s, ok := raw.(string); ok && op == model.OpContains {
			value.Set = []string{s}
			return value, nil
		}
		items, ok := raw.([]interface{})
		if !ok || len(items) == 0 {
			return value, fmt.Errorf("operator %s needs a non-empty list value", op)
		}
		set := make([]string, 0, len(items))
		for _, item := range items {
			set = append(set, fmt.Sprint(item))
		}
		value.Set = set
		return value, nil

	case model.OpBetween:
		items, ok := raw.([]interface{})
		if !ok || len(items) != 2 {
			return value, fmt.Errorf("operator between needs a [low, high] pair")
		}
		lo, okLo := asNumber(items[0])
		hi, okHi := asNumber(items[1])
		if !okLo || !okHi || lo > hi {
			return value, fmt.Errorf("operator between needs low <= high numbers")
		}
		value.Range = &[2]float64{lo, hi}
		return value, nil

	case model.OpRegex:
		s, ok := raw.(string)
		if !ok || s == "" {
			return value, fmt.Errorf("operator regex needs a pattern string")
		}
		re, err := regexp.Compile(s)
		if err != nil {
			return value, fmt.Errorf("invalid regex pattern: %w", err)
		}
		value.Pattern = s
		value.Regexp = re
		return value, nil
	}

	return value, fmt.Errorf("unknown operator %q", op)
}

// asNumber accepte les formes numériques que yaml.v3 peut produire
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func compileReward(raw rawReward) (model.Reward, error) {
	var reward model.Reward
	if raw.Points < 0 || raw.Experience < 0 {
		return reward, fmt.Errorf("reward points and experience must be >= 0")
	}

	reward = model.Reward{
		Points:     raw.Points,
		Experience: raw.Experience,
		Title:      raw.Title,
	}
	if raw.Badge != nil {
		level := model.BadgeLevel(raw.Badge.Level)
		if raw.Badge.ID == "" || level.Rank() == 0 {
			return reward, fmt.Errorf("badge reward needs an id and a valid level")
		}
		reward.Badge = &model.BadgeGrant{BadgeID: raw.Badge.ID, Level: level}
	}
	return reward, nil
}

func compileTimeConstraints(raw rawTimeConstraints) (model.TimeConstraints, error) {
	var tc model.TimeConstraints

	if raw.AvailableFrom != "" {
		t, err := time.Parse(time.RFC3339, raw.AvailableFrom)
		if err != nil {
			return tc, fmt.Errorf("invalid availableFrom: %w", err)
		}
		tc.AvailableFrom = &t
	}
	if raw.AvailableUntil != "" {
		t, err := time.Parse(time.RFC3339, raw.AvailableUntil)
		if err != nil {
			return tc, fmt.Errorf("invalid availableUntil: %w", err)
		}
		tc.AvailableUntil = &t
	}
	if raw.CooldownPeriod != "" {
		d, err := time.ParseDuration(raw.CooldownPeriod)
		if err != nil || d < 0 {
			return tc, fmt.Errorf("invalid cooldownPeriod %q", raw.CooldownPeriod)
		}
		tc.CooldownPeriod = d
	}
	if raw.MaxAttempts < 0 {
		return tc, fmt.Errorf("maxAttempts must be >= 0")
	}
	tc.MaxAttempts = raw.MaxAttempts
	return tc, nil
}

func compileVisibility(raw rawVisibility) (model.Visibility, error) {
	var vis model.Visibility

	visType := model.VisibilityType(raw.Type)
	if raw.Type == "" {
		visType = model.VisibilityVisible
	}
	switch visType {
	case model.VisibilityVisible, model.VisibilityUnlockable, model.VisibilitySecret:
	default:
		return vis, fmt.Errorf("unknown visibility type %q", raw.Type)
	}

	conditions := make([]model.Condition, 0, len(raw.UnlockConditions))
	for _, rc := range raw.UnlockConditions {
		cond, err := compileCondition(rc)
		if err != nil {
			return vis, err
		}
		conditions = append(conditions, cond)
	}
	vis = model.Visibility{Type: visType, UnlockConditions: conditions}
	return vis, nil
}

func compileLeaderboard(raw rawLeaderboard) (model.LeaderboardDefinition, error) {
	var def model.LeaderboardDefinition
	fail := func(reason string) (model.LeaderboardDefinition, error) {
		return def, &gamification.DefinitionError{DefinitionID: raw.ID, Reason: reason}
	}

	if raw.ID == "" {
		return fail("missing id")
	}
	if raw.Metrics.Primary.Field == "" {
		return fail("missing primary metric field")
	}

	aggregation := raw.Metrics.Primary.Aggregation
	if aggregation == "" {
		aggregation = "sum"
	}
	switch aggregation {
	case "sum", "max", "last":
	default:
		return fail(fmt.Sprintf("unknown aggregation %q", aggregation))
	}

	secondary := make([]model.SecondaryMetric, 0, len(raw.Metrics.Secondary))
	for _, m := range raw.Metrics.Secondary {
		if m.Field == "" {
			return fail("secondary metric missing field")
		}
		weight := m.Weight
		if weight <= 0 {
			weight = 1
		}
		secondary = append(secondary, model.SecondaryMetric{Field: m.Field, Weight: weight})
	}

	maxEntries := raw.Display.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 100
	}

	schedule := raw.Timeframe.ResetSchedule
	if schedule == "" {
		schedule = "none"
	}
	switch schedule {
	case "none", "daily", "weekly", "monthly":
	default:
		return fail(fmt.Sprintf("unknown resetSchedule %q", schedule))
	}

	version := raw.Version
	if version <= 0 {
		version = 1
	}

	def = model.LeaderboardDefinition{
		ID:      raw.ID,
		Version: version,
		Name:    raw.Name,
		Metrics: model.LeaderboardMetrics{
			Primary:   model.MetricSpec{Field: raw.Metrics.Primary.Field, Aggregation: aggregation},
			Secondary: secondary,
		},
		Display:   model.LeaderboardDisplay{MaxEntries: maxEntries},
		Timeframe: model.LeaderboardTimeframe{ResetSchedule: schedule},
	}
	return def, nil
}
