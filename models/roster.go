package models

type RosterMember struct {
	ID         int    `json:"id" db:"id"`
	TeamID     int    `json:"team_id" db:"team_id"`
	PlayerName string `json:"player_name" db:"player_name"`
	Number     string `json:"number" db:"number"`

	// Joined team fields, populated by list queries. Nil when the owning
	// team no longer exists.
	Team *Team `json:"team,omitempty" db:"-"`
}
