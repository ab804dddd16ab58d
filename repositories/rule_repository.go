package repositories

import (
	"fmt"

	"rulehub/models"

	"gorm.io/gorm"
)

type RuleRepository interface {
	Create(rule *models.Rule) error
	GetByID(id uint) (*models.Rule, error)
	GetBySlug(slug string) (*models.Rule, error)
	GetBySourcePath(path string) (*models.Rule, error)
	GetByPathSuffix(fragment string) (*models.Rule, error)
	GetList(params models.RuleListParams, categoryID uint) ([]models.Rule, int64, error)
	GetAllSourcePaths() (map[string]uint, error)
	Update(rule *models.Rule) error
	Delete(id uint) error
	Count() (int64, error)
	IncrementDownloads(id uint) error
	CreateVersion(version *models.RuleVersion) error
	GetVersions(ruleID uint) ([]models.RuleVersion, error)
	GetMatching(frameworks, assistants []string, editor string) ([]models.Rule, error)
}

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) Create(rule *models.Rule) error {
	return r.db.Create(rule).Error
}

func (r *ruleRepository) GetByID(id uint) (*models.Rule, error) {
	var rule models.Rule
	err := r.db.Preload("Category").First(&rule, id).Error
	return &rule, err
}

func (r *ruleRepository) GetBySlug(slug string) (*models.Rule, error) {
	var rule models.Rule
	err := r.db.Preload("Category").Where("slug = ?", slug).First(&rule).Error
	return &rule, err
}

func (r *ruleRepository) GetBySourcePath(path string) (*models.Rule, error) {
	var rule models.Rule
	err := r.db.Where("source_path = ?", path).First(&rule).Error
	return &rule, err
}

func (r *ruleRepository) GetByPathSuffix(fragment string) (*models.Rule, error) {
	var rule models.Rule
	err := r.db.Preload("Category").
		Where("source_path LIKE ?", "%"+fragment).
		First(&rule).Error
	return &rule, err
}

func (r *ruleRepository) GetList(params models.RuleListParams, categoryID uint) ([]models.Rule, int64, error) {
	var rules []models.Rule
	var total int64

	query := r.db.Model(&models.Rule{}).Preload("Category")

	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	query.Count(&total)

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := params.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	// sortBy is restricted to known columns in the service layer
	query = query.Order(fmt.Sprintf("rules.%s %s", sortBy, sortOrder))

	offset := (params.Page - 1) * params.Limit
	err := query.Offset(offset).Limit(params.Limit).Find(&rules).Error

	return rules, total, err
}

func (r *ruleRepository) GetAllSourcePaths() (map[string]uint, error) {
	var rows []struct {
		ID         uint
		SourcePath string
	}

	err := r.db.Model(&models.Rule{}).
		Select("id", "source_path").
		Where("source_path <> ''").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	paths := make(map[string]uint, len(rows))
	for _, row := range rows {
		paths[row.SourcePath] = row.ID
	}

	return paths, nil
}

func (r *ruleRepository) Update(rule *models.Rule) error {
	return r.db.Save(rule).Error
}

func (r *ruleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Rule{}, id).Error
}

func (r *ruleRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Rule{}).Count(&total).Error
	return total, err
}

func (r *ruleRepository) IncrementDownloads(id uint) error {
	return r.db.Model(&models.Rule{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
}

func (r *ruleRepository) CreateVersion(version *models.RuleVersion) error {
	return r.db.Create(version).Error
}

func (r *ruleRepository) GetVersions(ruleID uint) ([]models.RuleVersion, error) {
	var versions []models.RuleVersion
	err := r.db.Where("rule_id = ?", ruleID).
		Order("created_at desc").
		Find(&versions).Error
	return versions, err
}

func (r *ruleRepository) GetMatching(frameworks, assistants []string, editor string) ([]models.Rule, error) {
	var rules []models.Rule

	query := r.db.Preload("Category")

	var conditions []string
	var args []interface{}
	for _, f := range frameworks {
		conditions = append(conditions, "compatibility->'frameworks' @> ?")
		args = append(args, fmt.Sprintf(`["%s"]`, f))
	}
	for _, a := range assistants {
		conditions = append(conditions, "compatibility->'ai_assistants' @> ?")
		args = append(args, fmt.Sprintf(`["%s"]`, a))
	}
	if editor != "" {
		conditions = append(conditions, "compatibility->'ides' @> ?")
		args = append(args, fmt.Sprintf(`["%s"]`, editor))
	}

	if len(conditions) > 0 {
		or := conditions[0]
		for _, c := range conditions[1:] {
			or += " OR " + c
		}
		query = query.Where(or, args...)
	}

	err := query.Order("votes desc").Find(&rules).Error
	return rules, err
}
