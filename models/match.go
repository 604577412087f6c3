package models

import "time"

type MatchSide string

const (
	SideHome MatchSide = "home"
	SideAway MatchSide = "away"
)

func (s MatchSide) Valid() bool {
	return s == SideHome || s == SideAway
}

type MatchEntry struct {
	ID        int       `json:"id" db:"id"`
	GameID    string    `json:"game_id" db:"game_id"`
	GameTitle string    `json:"game_title" db:"game_title"`
	Side      MatchSide `json:"side" db:"side"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Details   string    `json:"details" db:"details"`
	GameTime  time.Time `json:"gametime" db:"gametime"`
	PhotoURL  *string   `json:"photo,omitempty" db:"photo"`

	Team *Team `json:"team,omitempty" db:"-"`
}
