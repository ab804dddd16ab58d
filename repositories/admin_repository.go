package repositories

import (
	"errors"

	"rulehub/models"

	"gorm.io/gorm"
)

type AdminRepository interface {
	Add(admin *models.Admin) error
	GetByEmail(email string) (*models.Admin, error)
	IsAdmin(email string) (bool, error)
	GetAll() ([]models.Admin, error)
	Remove(email string) error
	Count() (int64, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Add(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

func (r *adminRepository) GetByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("email = ?", email).First(&admin).Error
	return &admin, err
}

func (r *adminRepository) IsAdmin(email string) (bool, error) {
	_, err := r.GetByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *adminRepository) GetAll() ([]models.Admin, error) {
	var admins []models.Admin
	err := r.db.Order("created_at asc").Find(&admins).Error
	return admins, err
}

func (r *adminRepository) Remove(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.Admin{}).Error
}

func (r *adminRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Admin{}).Count(&total).Error
	return total, err
}
