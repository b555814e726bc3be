package models

import "time"

// Vote model - one immutable record per (contest, contestant, voter key).
// The composite unique index is the single arbiter of "already voted";
// vote admission relies on it instead of an in-process lock.
type Vote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ContestID    uint      `gorm:"not null;uniqueIndex:idx_votes_ballot" json:"contest_id"`
	ContestantID uint      `gorm:"not null;uniqueIndex:idx_votes_ballot" json:"contestant_id"`
	VoterKey     string    `gorm:"not null;size:128;uniqueIndex:idx_votes_ballot" json:"voter_key"`
	CreatedAt    time.Time `json:"created_at"`
}
