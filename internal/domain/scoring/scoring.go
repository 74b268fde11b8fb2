// Package scoring turns a baker's weekly events into a point total.
package scoring

import (
	"strings"

	"github.com/okian/fantasybakes/internal/domain/model"
)

// Default point values for each event.
const (
	defaultSurvived     = 1
	defaultTechnicalWin = 2
	defaultStarBaker    = 3
	defaultHandshake    = 3
	defaultSoggyBottom  = -0.5
)

// RuleSet maps each scoring event to its point delta.
type RuleSet struct {
	Survived     float64 `json:"survived" yaml:"survived"`
	TechnicalWin float64 `json:"technicalWin" yaml:"technicalWin"`
	StarBaker    float64 `json:"starBaker" yaml:"starBaker"`
	Handshake    float64 `json:"handshake" yaml:"handshake"`
	SoggyBottom  float64 `json:"soggyBottom" yaml:"soggyBottom"`
}

// DefaultRules returns the standard rule set.
func DefaultRules() RuleSet {
	return RuleSet{
		Survived:     defaultSurvived,
		TechnicalWin: defaultTechnicalWin,
		StarBaker:    defaultStarBaker,
		Handshake:    defaultHandshake,
		SoggyBottom:  defaultSoggyBottom,
	}
}

// RuleSetFromMap builds a RuleSet from configuration keys. Keys are matched
// case-insensitively and may be camelCase or snake_case. Missing events keep
// their default value; unknown keys are ignored.
func RuleSetFromMap(values map[string]float64) RuleSet {
	rules := DefaultRules()
	for key, v := range values {
		ev, ok := ParseEvent(key)
		if !ok {
			continue
		}
		rules.set(ev, model.Finite(v))
	}
	return rules
}

// Value returns the points for ev.
func (r RuleSet) Value(ev Event) float64 {
	switch ev {
	case Survived:
		return r.Survived
	case TechnicalWin:
		return r.TechnicalWin
	case StarBaker:
		return r.StarBaker
	case Handshake:
		return r.Handshake
	case SoggyBottom:
		return r.SoggyBottom
	}
	return 0
}

func (r *RuleSet) set(ev Event, v float64) {
	switch ev {
	case Survived:
		r.Survived = v
	case TechnicalWin:
		r.TechnicalWin = v
	case StarBaker:
		r.StarBaker = v
	case Handshake:
		r.Handshake = v
	case SoggyBottom:
		r.SoggyBottom = v
	}
}

// ComputeTotal returns the adjustment plus the value of every set flag.
// Events are summed in a fixed order so equal inputs give identical bits.
func ComputeTotal(rec model.ScoreRecord, rules RuleSet) float64 {
	total := model.Finite(rec.ManualAdjustment)
	for _, ev := range Events {
		if ev.IsSet(rec) {
			total += rules.Value(ev)
		}
	}
	return total
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "")
}
