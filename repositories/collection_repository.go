package repositories

import (
	"rulehub/models"

	"gorm.io/gorm"
)

type CollectionRepository interface {
	Create(collection *models.Collection) error
	GetByID(id uint) (*models.Collection, error)
	GetByUser(userID uint) ([]models.Collection, error)
	GetPublic(page, limit int) ([]models.Collection, int64, error)
	Update(collection *models.Collection) error
	Delete(id uint) error
	AddRule(collection *models.Collection, rule *models.Rule) error
	RemoveRule(collection *models.Collection, rule *models.Rule) error
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(collection *models.Collection) error {
	return r.db.Create(collection).Error
}

func (r *collectionRepository) GetByID(id uint) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.Preload("Rules").Preload("Rules.Category").First(&collection, id).Error
	return &collection, err
}

func (r *collectionRepository) GetByUser(userID uint) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.Preload("Rules").
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&collections).Error
	return collections, err
}

func (r *collectionRepository) GetPublic(page, limit int) ([]models.Collection, int64, error) {
	var collections []models.Collection
	var total int64

	query := r.db.Model(&models.Collection{}).Where("public = ?", true)
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Preload("Rules").
		Order("updated_at desc").
		Offset(offset).Limit(limit).
		Find(&collections).Error

	return collections, total, err
}

func (r *collectionRepository) Update(collection *models.Collection) error {
	return r.db.Save(collection).Error
}

func (r *collectionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Collection{}, id).Error
}

func (r *collectionRepository) AddRule(collection *models.Collection, rule *models.Rule) error {
	return r.db.Model(collection).Association("Rules").Append(rule)
}

func (r *collectionRepository) RemoveRule(collection *models.Collection, rule *models.Rule) error {
	return r.db.Model(collection).Association("Rules").Delete(rule)
}
