package repositories

import (
	"rulehub/models"

	"gorm.io/gorm"
)

type DocCommentRepository interface {
	Create(comment *models.DocComment) error
	GetByID(id uint) (*models.DocComment, error)
	GetByPage(pageID uint) ([]models.DocComment, error)
	Update(comment *models.DocComment) error
	Delete(id uint) error
}

type docCommentRepository struct {
	db *gorm.DB
}

func NewDocCommentRepository(db *gorm.DB) DocCommentRepository {
	return &docCommentRepository{db: db}
}

func (r *docCommentRepository) Create(comment *models.DocComment) error {
	return r.db.Create(comment).Error
}

func (r *docCommentRepository) GetByID(id uint) (*models.DocComment, error) {
	var comment models.DocComment
	err := r.db.Preload("Author").First(&comment, id).Error
	return &comment, err
}

func (r *docCommentRepository) GetByPage(pageID uint) ([]models.DocComment, error) {
	var comments []models.DocComment
	err := r.db.Preload("Author").
		Where("page_id = ?", pageID).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}

func (r *docCommentRepository) Update(comment *models.DocComment) error {
	return r.db.Save(comment).Error
}

func (r *docCommentRepository) Delete(id uint) error {
	return r.db.Delete(&models.DocComment{}, id).Error
}
