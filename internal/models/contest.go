package models

import "time"

// Contest is a time-boxed voting event owned by a user.
// "Closed" is never stored: a contest is closed exactly when it is
// published and now is past EndDate.
type Contest struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UserID        uint         `gorm:"not null;index" json:"user_id"`
	Name          string       `gorm:"not null" json:"name"`
	Description   string       `gorm:"not null" json:"description"`
	CoverPhotoURL string       `json:"cover_photo_url"`
	StartDate     time.Time    `gorm:"not null" json:"start_date"`
	EndDate       time.Time    `gorm:"not null" json:"end_date"`
	IsPublished   bool         `gorm:"not null;default:false" json:"is_published"`
	Contestants   []Contestant `gorm:"foreignKey:ContestID" json:"contestants"`
	User          User         `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsActive reports whether the contest is currently accepting votes.
func (c *Contest) IsActive(now time.Time) bool {
	return c.IsPublished && !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// IsClosed reports whether the voting window has ended.
func (c *Contest) IsClosed(now time.Time) bool {
	return c.IsPublished && now.After(c.EndDate)
}

type CreateContestRequest struct {
	Name          string    `json:"name" binding:"required"`
	Description   string    `json:"description" binding:"required"`
	CoverPhotoURL string    `json:"cover_photo_url"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
}
