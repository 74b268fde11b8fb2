package model

import (
	"time"

	"github.com/google/uuid"
)

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

// Change kinds published after a successful save.
const (
	ChangeScoresRecorded     ChangeKind = "scores_recorded"
	ChangeWeekUpdated        ChangeKind = "week_updated"
	ChangeWeekActivated      ChangeKind = "week_activated"
	ChangeCurrentWeekChanged ChangeKind = "current_week_changed"
	ChangeBakerEliminated    ChangeKind = "baker_eliminated"
	ChangeBakerRestored      ChangeKind = "baker_restored"
	ChangeTeamUpdated        ChangeKind = "team_updated"
	ChangeBakerUpdated       ChangeKind = "baker_updated"
)

// Change tells observers that persisted season data moved. Fields that do
// not apply to the kind are left zero.
type Change struct {
	ID      string     `json:"id"`
	Kind    ChangeKind `json:"kind"`
	Week    int        `json:"week,omitempty"`
	BakerID string     `json:"baker_id,omitempty"`
	TeamID  string     `json:"team_id,omitempty"`
	At      time.Time  `json:"at"`
}

// NewChange stamps a change of kind with a fresh id and the current time.
func NewChange(kind ChangeKind) Change {
	return Change{ID: uuid.NewString(), Kind: kind, At: time.Now()}
}
