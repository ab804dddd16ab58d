package services

import (
	"errors"
	"strconv"

	"rulehub/helper"
	"rulehub/models"
	"rulehub/repositories"

	"gorm.io/gorm"
)

var ruleSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"votes":      true,
	"downloads":  true,
}

type RuleService interface {
	GetCategories() ([]models.Category, error)
	GetCategory(identifier string) (*models.Category, error)
	GetRules(params models.RuleListParams) ([]models.Rule, int64, error)
	FindRule(identifier string) (*models.Rule, error)
	GetRuleVersions(ruleID uint) ([]models.RuleVersion, error)
	CreateRule(req models.CreateRuleRequest) (*models.Rule, error)
	UpdateRule(id uint, req models.UpdateRuleRequest) (*models.Rule, error)
	DeleteRule(id uint) error
	CreateCategory(req models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(id uint, req models.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(id uint) error
}

type ruleService struct {
	ruleRepo     repositories.RuleRepository
	categoryRepo repositories.CategoryRepository
}

func NewRuleService(ruleRepo repositories.RuleRepository, categoryRepo repositories.CategoryRepository) RuleService {
	return &ruleService{
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *ruleService) GetCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// GetCategory resolves a category by numeric id or slug. A nil result with a
// nil error means the category does not exist; callers can tell absence from
// failure.
func (s *ruleService) GetCategory(identifier string) (*models.Category, error) {
	if id, err := strconv.ParseUint(identifier, 10, 32); err == nil {
		category, err := s.categoryRepo.GetByID(uint(id))
		if err == nil {
			return category, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	category, err := s.categoryRepo.GetBySlug(identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (s *ruleService) GetRules(params models.RuleListParams) ([]models.Rule, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	if !ruleSortColumns[params.SortBy] {
		params.SortBy = "created_at"
	}

	var categoryID uint
	if params.Category != "" {
		category, err := s.GetCategory(params.Category)
		if err != nil {
			return nil, 0, err
		}
		if category == nil {
			return []models.Rule{}, 0, nil
		}
		categoryID = category.ID
	}

	return s.ruleRepo.GetList(params, categoryID)
}

// FindRule resolves an arbitrary identifier for legacy redirect support.
// Lookup precedence: exact id, then slug, then source path suffix. The first
// hit wins; nil means no strategy matched.
func (s *ruleService) FindRule(identifier string) (*models.Rule, error) {
	if id, err := strconv.ParseUint(identifier, 10, 32); err == nil {
		rule, err := s.ruleRepo.GetByID(uint(id))
		if err == nil {
			return rule, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	rule, err := s.ruleRepo.GetBySlug(identifier)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rule, err = s.ruleRepo.GetByPathSuffix(identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rule, nil
}

func (s *ruleService) GetRuleVersions(ruleID uint) ([]models.RuleVersion, error) {
	if _, err := s.ruleRepo.GetByID(ruleID); err != nil {
		return nil, err
	}
	return s.ruleRepo.GetVersions(ruleID)
}

func (s *ruleService) CreateRule(req models.CreateRuleRequest) (*models.Rule, error) {
	if _, err := s.categoryRepo.GetByID(req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = helper.Slugify(req.Title)
	}

	rule := &models.Rule{
		Title:         req.Title,
		Slug:          slug,
		Description:   req.Description,
		Content:       req.Content,
		CategoryID:    req.CategoryID,
		Tags:          req.Tags,
		Compatibility: req.Compatibility,
		Version:       req.Version,
	}

	if err := s.ruleRepo.Create(rule); err != nil {
		return nil, err
	}

	version := &models.RuleVersion{
		RuleID:     rule.ID,
		Version:    rule.Version,
		Content:    rule.Content,
		ChangeNote: "created via admin API",
	}
	if err := s.ruleRepo.CreateVersion(version); err != nil {
		return nil, err
	}

	return s.ruleRepo.GetByID(rule.ID)
}

func (s *ruleService) UpdateRule(id uint, req models.UpdateRuleRequest) (*models.Rule, error) {
	rule, err := s.ruleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	contentChanged := false

	if req.Title != nil {
		rule.Title = *req.Title
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.Content != nil && *req.Content != rule.Content {
		rule.Content = *req.Content
		contentChanged = true
	}
	if req.CategoryID != nil {
		rule.CategoryID = *req.CategoryID
	}
	if req.Tags != nil {
		rule.Tags = req.Tags
	}
	if req.Compatibility != nil {
		rule.Compatibility = *req.Compatibility
	}
	if req.Version != nil {
		rule.Version = *req.Version
	}

	if err := s.ruleRepo.Update(rule); err != nil {
		return nil, err
	}

	if contentChanged {
		version := &models.RuleVersion{
			RuleID:     rule.ID,
			Version:    rule.Version,
			Content:    rule.Content,
			ChangeNote: "updated via admin API",
		}
		if err := s.ruleRepo.CreateVersion(version); err != nil {
			return nil, err
		}
	}

	return s.ruleRepo.GetByID(rule.ID)
}

func (s *ruleService) DeleteRule(id uint) error {
	if _, err := s.ruleRepo.GetByID(id); err != nil {
		return err
	}
	return s.ruleRepo.Delete(id)
}

func (s *ruleService) CreateCategory(req models.CreateCategoryRequest) (*models.Category, error) {
	slug := req.Slug
	if slug == "" {
		slug = helper.Slugify(req.Name)
	}

	existing, err := s.categoryRepo.GetBySlug(slug)
	if err == nil && existing != nil {
		return nil, errors.New("category already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Icon:        req.Icon,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *ruleService) UpdateCategory(id uint, req models.CreateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	category.Description = req.Description
	category.Icon = req.Icon

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *ruleService) DeleteCategory(id uint) error {
	if _, err := s.categoryRepo.GetByID(id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(id)
}
