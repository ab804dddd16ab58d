package models

import "time"

// Admin is an allow-listed email address. Presence grants elevated API
// access; there are no further privilege levels.
type Admin struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	AddedBy   string    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}
