package models

import "time"

// UserVote records that a user voted for a rule. The (user, rule) pair is
// unique; creating or deleting a row must adjust the rule's cached vote
// count in the same transaction.
type UserVote struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_rule_vote"`
	RuleID    uint      `json:"rule_id" gorm:"not null;uniqueIndex:idx_user_rule_vote"`
	CreatedAt time.Time `json:"created_at"`
}
