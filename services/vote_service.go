package services

import (
	"errors"

	"rulehub/models"
	"rulehub/repositories"

	"gorm.io/gorm"
)

type VoteService interface {
	AddVote(userID, ruleID uint) (*models.Rule, error)
	RemoveVote(userID, ruleID uint) (*models.Rule, error)
	HasVoted(userID, ruleID uint) (bool, error)
}

type voteService struct {
	voteRepo repositories.VoteRepository
	ruleRepo repositories.RuleRepository
}

func NewVoteService(voteRepo repositories.VoteRepository, ruleRepo repositories.RuleRepository) VoteService {
	return &voteService{
		voteRepo: voteRepo,
		ruleRepo: ruleRepo,
	}
}

func (s *voteService) AddVote(userID, ruleID uint) (*models.Rule, error) {
	if _, err := s.ruleRepo.GetByID(ruleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("rule not found")
		}
		return nil, err
	}

	if err := s.voteRepo.Add(userID, ruleID); err != nil {
		return nil, err
	}

	return s.ruleRepo.GetByID(ruleID)
}

func (s *voteService) RemoveVote(userID, ruleID uint) (*models.Rule, error) {
	if _, err := s.ruleRepo.GetByID(ruleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("rule not found")
		}
		return nil, err
	}

	if err := s.voteRepo.Remove(userID, ruleID); err != nil {
		return nil, err
	}

	return s.ruleRepo.GetByID(ruleID)
}

func (s *voteService) HasVoted(userID, ruleID uint) (bool, error) {
	return s.voteRepo.Has(userID, ruleID)
}
