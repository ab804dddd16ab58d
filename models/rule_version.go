package models

import "time"

// RuleVersion is append-only: a snapshot is written on every content-changing
// sync and never mutated afterwards.
type RuleVersion struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	RuleID      uint      `json:"rule_id" gorm:"not null;index"`
	Rule        *Rule     `json:"rule,omitempty" gorm:"foreignKey:RuleID"`
	Version     string    `json:"version"`
	Content     string    `json:"content" gorm:"type:text"`
	Fingerprint string    `json:"-"`
	ChangeNote  string    `json:"change_note"`
	CreatedAt   time.Time `json:"created_at"`
}
