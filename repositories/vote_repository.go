package repositories

import (
	"errors"

	"rulehub/models"

	"gorm.io/gorm"
)

var (
	ErrVoteExists   = errors.New("vote already exists")
	ErrVoteNotFound = errors.New("vote not found")
)

type VoteRepository interface {
	Add(userID, ruleID uint) error
	Remove(userID, ruleID uint) error
	Has(userID, ruleID uint) (bool, error)
	CountForRule(ruleID uint) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Add inserts the vote row and bumps the rule's cached count in one
// transaction, so the pair can never drift apart.
func (r *voteRepository) Add(userID, ruleID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.UserVote
		err := tx.Where("user_id = ? AND rule_id = ?", userID, ruleID).First(&existing).Error
		if err == nil {
			return ErrVoteExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		vote := models.UserVote{UserID: userID, RuleID: ruleID}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}

		return tx.Model(&models.Rule{}).
			Where("id = ?", ruleID).
			UpdateColumn("votes", gorm.Expr("votes + 1")).Error
	})
}

func (r *voteRepository) Remove(userID, ruleID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.UserVote
		err := tx.Where("user_id = ? AND rule_id = ?", userID, ruleID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoteNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}

		return tx.Model(&models.Rule{}).
			Where("id = ? AND votes > 0", ruleID).
			UpdateColumn("votes", gorm.Expr("votes - 1")).Error
	})
}

func (r *voteRepository) Has(userID, ruleID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserVote{}).
		Where("user_id = ? AND rule_id = ?", userID, ruleID).
		Count(&count).Error
	return count > 0, err
}

func (r *voteRepository) CountForRule(ruleID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserVote{}).Where("rule_id = ?", ruleID).Count(&count).Error
	return count, err
}
