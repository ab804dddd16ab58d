package models

import "time"

type SyncTrigger string

const (
	SyncManual    SyncTrigger = "manual"
	SyncWebhook   SyncTrigger = "webhook"
	SyncScheduled SyncTrigger = "scheduled"
)

// SyncLog is an append-only audit record of a synchronization run.
type SyncLog struct {
	ID         uint        `json:"id" gorm:"primarykey"`
	Trigger    SyncTrigger `json:"trigger" gorm:"column:triggered_by;not null"`
	Added      int         `json:"added"`
	Updated    int         `json:"updated"`
	Skipped    int         `json:"skipped"`
	Deleted    int         `json:"deleted"`
	Errors     StringList  `json:"errors" gorm:"type:jsonb"`
	DurationMs int64       `json:"duration_ms"`
	CreatedAt  time.Time   `json:"created_at"`
}
