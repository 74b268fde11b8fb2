// Package types contains read shapes shared by the service and its callers.
package types

import "github.com/okian/fantasybakes/internal/domain/model"

// Standing is one row of the team leaderboard.
type Standing struct {
	Rank             int           `json:"rank"`
	TeamID           string        `json:"team_id"`
	Name             string        `json:"name"`
	Members          string        `json:"members,omitempty"`
	Bakers           []model.Baker `json:"bakers"`
	TotalScore       float64       `json:"total_score"`
	CurrentWeekScore float64       `json:"current_week_score"`
}

// WeekScore is a team's score in a single week.
type WeekScore struct {
	WeekNumber int     `json:"week_number"`
	Score      float64 `json:"score"`
}

// BakerTotal is a baker's cumulative score.
type BakerTotal struct {
	BakerID string  `json:"baker_id"`
	Name    string  `json:"name"`
	Total   float64 `json:"total"`
}
