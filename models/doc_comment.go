package models

import (
	"time"

	"gorm.io/gorm"
)

// DocComment is a threaded comment on a documentation page. Resolving is a
// state transition, not a delete.
type DocComment struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	PageID     uint           `json:"page_id" gorm:"not null;index"`
	Page       *DocPage       `json:"-" gorm:"foreignKey:PageID"`
	AuthorID   uint           `json:"author_id" gorm:"not null"`
	Author     *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	ParentID   *uint          `json:"parent_id"`
	Content    string         `json:"content" gorm:"type:text;not null"`
	Resolved   bool           `json:"resolved" gorm:"default:false"`
	ResolvedAt *time.Time     `json:"resolved_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
