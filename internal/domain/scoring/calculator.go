package scoring

import "github.com/okian/fantasybakes/internal/domain/model"

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithRules sets the rule set used for totals.
func WithRules(rules RuleSet) Option {
	return func(c *Calculator) {
		c.rules = rules
	}
}

// WithRulesFromConfig sets the rule set from a configuration map.
func WithRulesFromConfig(values map[string]float64) Option {
	return func(c *Calculator) {
		if len(values) > 0 {
			c.rules = RuleSetFromMap(values)
		}
	}
}

// Edit is a single change to a score record, as made from the scoring grid.
// Exactly one of Event or Adjustment is used: a non-empty Event sets that
// flag to Value, otherwise Adjustment replaces the manual adjustment.
type Edit struct {
	Event      Event
	Value      bool
	Adjustment float64
}

// FlagEdit builds an Edit that sets ev to v.
func FlagEdit(ev Event, v bool) Edit { return Edit{Event: ev, Value: v} }

// AdjustmentEdit builds an Edit that replaces the manual adjustment.
func AdjustmentEdit(v float64) Edit { return Edit{Adjustment: v} }

// Calculator computes totals against a fixed rule set.
type Calculator struct {
	rules RuleSet
}

// NewCalculator creates a calculator with the default rule set unless an
// option overrides it.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{rules: DefaultRules()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns the active rule set.
func (c *Calculator) Rules() RuleSet { return c.rules }

// Total computes the total for rec.
func (c *Calculator) Total(rec model.ScoreRecord) float64 {
	return ComputeTotal(rec, c.rules)
}

// Recompute returns rec with a finite adjustment and its total rewritten.
func (c *Calculator) Recompute(rec model.ScoreRecord) model.ScoreRecord {
	rec.ManualAdjustment = model.Finite(rec.ManualAdjustment)
	rec.Total = c.Total(rec)
	return rec
}

// Apply returns rec with e applied and the total recomputed.
func (c *Calculator) Apply(rec model.ScoreRecord, e Edit) model.ScoreRecord {
	if e.Event != "" {
		e.Event.assign(&rec, e.Value)
	} else {
		rec.ManualAdjustment = e.Adjustment
	}
	return c.Recompute(rec)
}

// ParseAdjustment converts free-form adjustment input to a number, treating
// blank or malformed input as 0.
func ParseAdjustment(s string) float64 {
	return model.ParseNumber(s)
}
