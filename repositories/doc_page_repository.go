package repositories

import (
	"fmt"

	"rulehub/models"

	"gorm.io/gorm"
)

type DocPageRepository interface {
	Create(page *models.DocPage) error
	GetByID(id uint) (*models.DocPage, error)
	GetBySlug(slug string) (*models.DocPage, error)
	GetByPath(path string) (*models.DocPage, error)
	GetAll() ([]models.DocPage, error)
	GetChildren(parentID uint) ([]models.DocPage, error)
	Search(params models.DocSearchParams) ([]models.DocPage, int64, error)
	Update(page *models.DocPage) error
	ReplaceTags(page *models.DocPage, tags []models.DocTag) error
	Delete(id uint) error
	Count() (int64, error)
}

type docPageRepository struct {
	db *gorm.DB
}

func NewDocPageRepository(db *gorm.DB) DocPageRepository {
	return &docPageRepository{db: db}
}

func (r *docPageRepository) Create(page *models.DocPage) error {
	return r.db.Create(page).Error
}

func (r *docPageRepository) GetByID(id uint) (*models.DocPage, error) {
	var page models.DocPage
	err := r.db.Preload("Author").Preload("Tags").First(&page, id).Error
	return &page, err
}

func (r *docPageRepository) GetBySlug(slug string) (*models.DocPage, error) {
	var page models.DocPage
	err := r.db.Preload("Author").Preload("Tags").Where("slug = ?", slug).First(&page).Error
	return &page, err
}

func (r *docPageRepository) GetByPath(path string) (*models.DocPage, error) {
	var page models.DocPage
	err := r.db.Preload("Author").Preload("Tags").Where("path = ?", path).First(&page).Error
	return &page, err
}

func (r *docPageRepository) GetAll() ([]models.DocPage, error) {
	var pages []models.DocPage
	err := r.db.Preload("Tags").Order("position asc, id asc").Find(&pages).Error
	return pages, err
}

func (r *docPageRepository) GetChildren(parentID uint) ([]models.DocPage, error) {
	var pages []models.DocPage
	err := r.db.Where("parent_id = ?", parentID).Order("position asc").Find(&pages).Error
	return pages, err
}

func (r *docPageRepository) Search(params models.DocSearchParams) ([]models.DocPage, int64, error) {
	var pages []models.DocPage
	var total int64

	query := r.db.Model(&models.DocPage{}).Preload("Author").Preload("Tags")

	if params.Query != "" {
		pattern := "%" + params.Query + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ? OR excerpt ILIKE ?", pattern, pattern, pattern)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Visibility != "" {
		query = query.Where("visibility = ?", params.Visibility)
	}
	if params.AuthorID > 0 {
		query = query.Where("author_id = ?", params.AuthorID)
	}
	if params.Tag != "" {
		query = query.Joins("JOIN doc_page_tags ON doc_page_tags.doc_page_id = doc_pages.id").
			Joins("JOIN doc_tags ON doc_tags.id = doc_page_tags.doc_tag_id").
			Where("doc_tags.slug = ?", params.Tag)
	}

	query.Count(&total)

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "updated_at"
	}
	sortOrder := params.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("doc_pages.%s %s", sortBy, sortOrder))

	offset := (params.Page - 1) * params.Limit
	err := query.Offset(offset).Limit(params.Limit).Find(&pages).Error

	return pages, total, err
}

func (r *docPageRepository) Update(page *models.DocPage) error {
	return r.db.Save(page).Error
}

func (r *docPageRepository) ReplaceTags(page *models.DocPage, tags []models.DocTag) error {
	return r.db.Model(page).Association("Tags").Replace(tags)
}

func (r *docPageRepository) Delete(id uint) error {
	return r.db.Delete(&models.DocPage{}, id).Error
}

func (r *docPageRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.DocPage{}).Count(&total).Error
	return total, err
}
