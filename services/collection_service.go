package services

import (
	"errors"

	"rulehub/models"
	"rulehub/repositories"

	"gorm.io/gorm"
)

var ErrNotCollectionOwner = errors.New("not the collection owner")

type CollectionService interface {
	Create(req models.CreateCollectionRequest, userID uint) (*models.Collection, error)
	Get(id uint, userID uint) (*models.Collection, error)
	GetForUser(userID uint) ([]models.Collection, error)
	GetPublic(page, limit int) ([]models.Collection, int64, error)
	Update(id uint, req models.CreateCollectionRequest, userID uint) (*models.Collection, error)
	Delete(id uint, userID uint) error
	AddRule(id, ruleID, userID uint) (*models.Collection, error)
	RemoveRule(id, ruleID, userID uint) (*models.Collection, error)
}

type collectionService struct {
	collectionRepo repositories.CollectionRepository
	ruleRepo       repositories.RuleRepository
}

func NewCollectionService(collectionRepo repositories.CollectionRepository,
	ruleRepo repositories.RuleRepository) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		ruleRepo:       ruleRepo,
	}
}

func (s *collectionService) Create(req models.CreateCollectionRequest, userID uint) (*models.Collection, error) {
	collection := &models.Collection{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
	}

	if err := s.collectionRepo.Create(collection); err != nil {
		return nil, err
	}

	return collection, nil
}

// Get returns the collection when the requester owns it or it is public.
func (s *collectionService) Get(id uint, userID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if collection.UserID != userID && !collection.Public {
		return nil, ErrNotCollectionOwner
	}

	return collection, nil
}

func (s *collectionService) GetForUser(userID uint) ([]models.Collection, error) {
	return s.collectionRepo.GetByUser(userID)
}

func (s *collectionService) GetPublic(page, limit int) ([]models.Collection, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.collectionRepo.GetPublic(page, limit)
}

func (s *collectionService) Update(id uint, req models.CreateCollectionRequest, userID uint) (*models.Collection, error) {
	collection, err := s.ownedCollection(id, userID)
	if err != nil {
		return nil, err
	}

	collection.Name = req.Name
	collection.Description = req.Description
	collection.Public = req.Public

	if err := s.collectionRepo.Update(collection); err != nil {
		return nil, err
	}

	return collection, nil
}

func (s *collectionService) Delete(id uint, userID uint) error {
	if _, err := s.ownedCollection(id, userID); err != nil {
		return err
	}
	return s.collectionRepo.Delete(id)
}

func (s *collectionService) AddRule(id, ruleID, userID uint) (*models.Collection, error) {
	collection, err := s.ownedCollection(id, userID)
	if err != nil {
		return nil, err
	}

	rule, err := s.ruleRepo.GetByID(ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("rule not found")
		}
		return nil, err
	}

	if err := s.collectionRepo.AddRule(collection, rule); err != nil {
		return nil, err
	}

	return s.collectionRepo.GetByID(id)
}

func (s *collectionService) RemoveRule(id, ruleID, userID uint) (*models.Collection, error) {
	collection, err := s.ownedCollection(id, userID)
	if err != nil {
		return nil, err
	}

	rule, err := s.ruleRepo.GetByID(ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("rule not found")
		}
		return nil, err
	}

	if err := s.collectionRepo.RemoveRule(collection, rule); err != nil {
		return nil, err
	}

	return s.collectionRepo.GetByID(id)
}

func (s *collectionService) ownedCollection(id, userID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if collection.UserID != userID {
		return nil, ErrNotCollectionOwner
	}
	return collection, nil
}
