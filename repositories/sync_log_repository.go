package repositories

import (
	"rulehub/models"

	"gorm.io/gorm"
)

type SyncLogRepository interface {
	Create(log *models.SyncLog) error
	GetLatest() (*models.SyncLog, error)
	GetRecent(limit int) ([]models.SyncLog, error)
	Count() (int64, error)
}

type syncLogRepository struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepository{db: db}
}

func (r *syncLogRepository) Create(log *models.SyncLog) error {
	return r.db.Create(log).Error
}

func (r *syncLogRepository) GetLatest() (*models.SyncLog, error) {
	var log models.SyncLog
	err := r.db.Order("created_at desc").First(&log).Error
	return &log, err
}

func (r *syncLogRepository) GetRecent(limit int) ([]models.SyncLog, error) {
	var logs []models.SyncLog
	err := r.db.Order("created_at desc").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *syncLogRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.SyncLog{}).Count(&total).Error
	return total, err
}
