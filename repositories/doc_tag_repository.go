package repositories

import (
	"rulehub/models"

	"gorm.io/gorm"
)

type DocTagRepository interface {
	Create(tag *models.DocTag) error
	GetByID(id uint) (*models.DocTag, error)
	GetByName(name string) (*models.DocTag, error)
	GetAll() ([]models.DocTag, error)
	Update(tag *models.DocTag) error
	Delete(id uint) error
	CountPagesWithTag(tagID uint) (int64, error)
}

type docTagRepository struct {
	db *gorm.DB
}

func NewDocTagRepository(db *gorm.DB) DocTagRepository {
	return &docTagRepository{db: db}
}

func (r *docTagRepository) Create(tag *models.DocTag) error {
	return r.db.Create(tag).Error
}

func (r *docTagRepository) GetByID(id uint) (*models.DocTag, error) {
	var tag models.DocTag
	err := r.db.First(&tag, id).Error
	return &tag, err
}

func (r *docTagRepository) GetByName(name string) (*models.DocTag, error) {
	var tag models.DocTag
	err := r.db.Where("name = ?", name).First(&tag).Error
	return &tag, err
}

func (r *docTagRepository) GetAll() ([]models.DocTag, error) {
	var tags []models.DocTag
	err := r.db.Order("name asc").Find(&tags).Error
	return tags, err
}

func (r *docTagRepository) Update(tag *models.DocTag) error {
	return r.db.Save(tag).Error
}

func (r *docTagRepository) Delete(id uint) error {
	return r.db.Delete(&models.DocTag{}, id).Error
}

func (r *docTagRepository) CountPagesWithTag(tagID uint) (int64, error) {
	var count int64
	err := r.db.Table("doc_page_tags").Where("doc_tag_id = ?", tagID).Count(&count).Error
	return count, err
}
