package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnmarshalJSON accepts score records written by hand or by older clients.
// Flags that are not booleans read as false and numbers that cannot be
// parsed read as 0, so a partially entered record never carries NaN.
func (r *ScoreRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ScoreRecord{
		Survived:         flag(raw["survived"]),
		TechnicalWin:     flag(raw["technicalWin"]),
		StarBaker:        flag(raw["starBaker"]),
		Handshake:        flag(raw["handshake"]),
		SoggyBottom:      flag(raw["soggyBottom"]),
		ManualAdjustment: number(raw["manualAdjustment"]),
		Total:            number(raw["total"]),
	}
	return nil
}

func flag(msg json.RawMessage) bool {
	if len(msg) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(msg, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		v, perr := strconv.ParseBool(strings.TrimSpace(s))
		return perr == nil && v
	}
	return false
}

func number(msg json.RawMessage) float64 {
	if len(msg) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(msg, &f); err == nil {
		return Finite(f)
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return ParseNumber(s)
	}
	return 0
}

// ParseNumber parses s as a float and returns 0 for anything that is not a
// finite number.
func ParseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Finite(f)
}

// Finite maps NaN and infinities to 0.
func Finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
