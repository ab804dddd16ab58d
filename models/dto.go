package models

import "time"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateRuleRequest struct {
	Title         string        `json:"title" binding:"required,min=1,max=255"`
	Slug          string        `json:"slug"`
	Description   string        `json:"description"`
	Content       string        `json:"content" binding:"required"`
	CategoryID    uint          `json:"category_id" binding:"required"`
	Tags          []string      `json:"tags"`
	Compatibility Compatibility `json:"compatibility"`
	Version       string        `json:"version"`
}

type UpdateRuleRequest struct {
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
	Content       *string        `json:"content"`
	CategoryID    *uint          `json:"category_id"`
	Tags          []string       `json:"tags"`
	Compatibility *Compatibility `json:"compatibility"`
	Version       *string        `json:"version"`
}

type RuleListParams struct {
	Category  string `form:"category"`
	Search    string `form:"search"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type CreateDocPageRequest struct {
	Title      string         `json:"title" binding:"required,min=1,max=255"`
	Content    string         `json:"content" binding:"required"`
	Slug       string         `json:"slug"`
	Excerpt    string         `json:"excerpt"`
	ParentID   *uint          `json:"parent_id"`
	Status     PageStatus     `json:"status"`
	Visibility PageVisibility `json:"visibility"`
	Position   int            `json:"position"`
	TagIDs     []uint         `json:"tag_ids"`
}

// UpdateDocPageRequest patches a page. Nil fields are left unchanged; a
// parent_id of 0 moves the page to the docs root.
type UpdateDocPageRequest struct {
	Title      *string         `json:"title"`
	Content    *string         `json:"content"`
	Excerpt    *string         `json:"excerpt"`
	ParentID   *uint           `json:"parent_id"`
	Status     *PageStatus     `json:"status"`
	Visibility *PageVisibility `json:"visibility"`
	Position   *int            `json:"position"`
	TagIDs     []uint          `json:"tag_ids"`
}

type DocSearchParams struct {
	Query      string `form:"q"`
	Status     string `form:"status"`
	Visibility string `form:"visibility"`
	Tag        string `form:"tag"`
	AuthorID   uint   `form:"author_id"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	SortBy     string `form:"sort_by,default=updated_at"`
	SortOrder  string `form:"sort_order,default=desc"`
}

type CreateDocCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type UpdateDocCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CreateDocTagRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

type UpdateDocTagRequest struct {
	Name  *string `json:"name"`
	Slug  *string `json:"slug"`
	Color *string `json:"color"`
}

type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type AddAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type WebVitalRequest struct {
	Name string `json:"name" binding:"required"`
	// Pointer so a zero-valued sample (a perfect CLS score) still binds.
	Value *float64 `json:"value" binding:"required"`
	ID    string   `json:"id" binding:"required"`
}

// SetupRequest carries the wizard answers. All four sections are required.
type SetupRequest struct {
	Stack       SetupStack       `json:"stack" binding:"required"`
	Language    SetupLanguage    `json:"language" binding:"required"`
	Tools       SetupTools       `json:"tools" binding:"required"`
	Environment SetupEnvironment `json:"environment" binding:"required"`
}

type SetupStack struct {
	Frameworks []string `json:"frameworks"`
	Databases  []string `json:"databases"`
}

type SetupLanguage struct {
	Primary   string   `json:"primary" binding:"required" validate:"required"`
	Secondary []string `json:"secondary"`
}

type SetupTools struct {
	Editor       string   `json:"editor" binding:"required" validate:"required"`
	AIAssistants []string `json:"ai_assistants"`
}

type SetupEnvironment struct {
	OS string `json:"os" binding:"required" validate:"required"`
	CI string `json:"ci"`
}

type SetupPackage struct {
	SessionID string `json:"session_id"`
	Filename  string `json:"filename"`
	RuleCount int    `json:"rule_count"`
	Size      int    `json:"size"`
	Content   []byte `json:"-"`
}

type SyncOptions struct {
	Force    bool        `json:"force"`
	Category string      `json:"category"`
	Paths    []string    `json:"paths"`
	Trigger  SyncTrigger `json:"-"`
}

type SyncError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type SyncResult struct {
	Added    int           `json:"added"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Deleted  int           `json:"deleted"`
	Errors   []SyncError   `json:"errors"`
	Duration time.Duration `json:"-"`
}
