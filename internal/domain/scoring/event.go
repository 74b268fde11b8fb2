package scoring

import "github.com/okian/fantasybakes/internal/domain/model"

// Event names one scoring event.
type Event string

// Scoring events, named as they appear in stored records.
const (
	Survived     Event = "survived"
	TechnicalWin Event = "technicalWin"
	StarBaker    Event = "starBaker"
	Handshake    Event = "handshake"
	SoggyBottom  Event = "soggyBottom"
)

// Events lists every event in summation order.
var Events = []Event{Survived, TechnicalWin, StarBaker, Handshake, SoggyBottom}

// ParseEvent resolves a field or configuration key to an Event.
func ParseEvent(name string) (Event, bool) {
	key := normalizeKey(name)
	for _, ev := range Events {
		if normalizeKey(string(ev)) == key {
			return ev, true
		}
	}
	return "", false
}

// IsSet reports whether rec has ev flagged.
func (ev Event) IsSet(rec model.ScoreRecord) bool {
	switch ev {
	case Survived:
		return rec.Survived
	case TechnicalWin:
		return rec.TechnicalWin
	case StarBaker:
		return rec.StarBaker
	case Handshake:
		return rec.Handshake
	case SoggyBottom:
		return rec.SoggyBottom
	}
	return false
}

func (ev Event) assign(rec *model.ScoreRecord, v bool) {
	switch ev {
	case Survived:
		rec.Survived = v
	case TechnicalWin:
		rec.TechnicalWin = v
	case StarBaker:
		rec.StarBaker = v
	case Handshake:
		rec.Handshake = v
	case SoggyBottom:
		rec.SoggyBottom = v
	}
}
