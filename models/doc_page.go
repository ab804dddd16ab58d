package models

import (
	"time"

	"gorm.io/gorm"
)

type PageStatus string

const (
	PageDraft     PageStatus = "draft"
	PagePublished PageStatus = "published"
)

type PageVisibility string

const (
	PagePublic  PageVisibility = "public"
	PagePrivate PageVisibility = "private"
)

// DocPage is a wiki page. Pages form a tree via ParentID; Path is
// materialized from the ancestor slugs and must equal the parent's path plus
// the page's own slug ("/docs/<slug>" at the root).
type DocPage struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	Title      string         `json:"title" gorm:"not null"`
	Slug       string         `json:"slug" gorm:"not null"`
	Path       string         `json:"path" gorm:"uniqueIndex;not null"`
	ParentID   *uint          `json:"parent_id"`
	Parent     *DocPage       `json:"-" gorm:"foreignKey:ParentID"`
	Children   []*DocPage     `json:"children,omitempty" gorm:"-"`
	Content    string         `json:"content" gorm:"type:text"`
	Excerpt    string         `json:"excerpt"`
	Status     PageStatus     `json:"status" gorm:"default:'draft'"`
	Visibility PageVisibility `json:"visibility" gorm:"default:'public'"`
	Position   int            `json:"position" gorm:"default:0"`
	AuthorID   uint           `json:"author_id"`
	Author     *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags       []DocTag       `json:"tags,omitempty" gorm:"many2many:doc_page_tags;"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
