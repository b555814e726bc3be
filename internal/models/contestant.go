package models

import "time"

// Contestant is an entrant in a contest, carrying a vote tally.
// The Votes counter is only ever changed by the vote admission path
// (atomic increment, or a compensating decrement-free rollback that
// deletes the paired Vote row instead).
type Contestant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContestID uint      `gorm:"not null;index" json:"contest_id"`
	Name      string    `gorm:"not null" json:"name"`
	PhotoURL  string    `json:"photo_url"`
	Votes     int       `gorm:"not null;default:0" json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

type AttachContestantRequest struct {
	Name     string `json:"name" binding:"required"`
	PhotoURL string `json:"photo_url"`
}
