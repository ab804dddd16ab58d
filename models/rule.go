package models

import (
	"time"

	"gorm.io/gorm"
)

type Rule struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	Title         string         `json:"title" gorm:"not null"`
	Slug          string         `json:"slug" gorm:"index;not null"`
	Description   string         `json:"description"`
	Content       string         `json:"content" gorm:"type:text"`
	CategoryID    uint           `json:"category_id" gorm:"not null"`
	Category      *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags          StringList     `json:"tags" gorm:"type:jsonb"`
	Compatibility Compatibility  `json:"compatibility" gorm:"type:jsonb"`
	Version       string         `json:"version"`
	Fingerprint   string         `json:"-"`
	SourcePath    string         `json:"source_path" gorm:"index"`
	Votes         int            `json:"votes" gorm:"default:0"`
	Downloads     int            `json:"downloads" gorm:"default:0"`
	Versions      []RuleVersion  `json:"versions,omitempty" gorm:"foreignKey:RuleID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
