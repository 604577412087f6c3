package models

import "time"

type Team struct {
	ID         int       `json:"id" db:"id"`
	Category   string    `json:"category" db:"category"`
	Group      string    `json:"group" db:"team_group"`
	SchoolName string    `json:"school_name" db:"school_name"`
	HeadCoach  string    `json:"headcoach" db:"headcoach"`
	Status     string    `json:"status" db:"status"`
	Details    string    `json:"details" db:"details"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
