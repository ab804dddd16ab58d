package services

import (
	"errors"
	"time"

	"rulehub/models"
	"rulehub/repositories"

	"gorm.io/gorm"
)

var (
	ErrSelfRemoval   = errors.New("admins cannot remove themselves from the allow-list")
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("email is already an admin")
)

type AdminService interface {
	ListAdmins() ([]models.Admin, error)
	AddAdmin(email, addedBy string) (*models.Admin, error)
	RemoveAdmin(requesterEmail, targetEmail string) error
	DatabaseStats() (map[string]interface{}, error)
	SimulateMaintenance(operation string) map[string]interface{}
	ListUsers(page, limit int) ([]models.User, int64, error)
	UserStats() (map[string]interface{}, error)
}

type adminService struct {
	adminRepo      repositories.AdminRepository
	userRepo       repositories.UserRepository
	ruleRepo       repositories.RuleRepository
	categoryRepo   repositories.CategoryRepository
	docPageRepo    repositories.DocPageRepository
	syncLogRepo    repositories.SyncLogRepository
}

func NewAdminService(adminRepo repositories.AdminRepository, userRepo repositories.UserRepository,
	ruleRepo repositories.RuleRepository, categoryRepo repositories.CategoryRepository,
	docPageRepo repositories.DocPageRepository, syncLogRepo repositories.SyncLogRepository) AdminService {
	return &adminService{
		adminRepo:    adminRepo,
		userRepo:     userRepo,
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
		docPageRepo:  docPageRepo,
		syncLogRepo:  syncLogRepo,
	}
}

func (s *adminService) ListAdmins() ([]models.Admin, error) {
	return s.adminRepo.GetAll()
}

func (s *adminService) AddAdmin(email, addedBy string) (*models.Admin, error) {
	existing, err := s.adminRepo.GetByEmail(email)
	if err == nil && existing != nil {
		return nil, ErrAdminExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	admin := &models.Admin{
		Email:   email,
		AddedBy: addedBy,
	}

	if err := s.adminRepo.Add(admin); err != nil {
		return nil, err
	}

	return admin, nil
}

// RemoveAdmin rejects self-removal so the allow-list can never be emptied by
// its last member.
func (s *adminService) RemoveAdmin(requesterEmail, targetEmail string) error {
	if requesterEmail == targetEmail {
		return ErrSelfRemoval
	}

	if _, err := s.adminRepo.GetByEmail(targetEmail); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	return s.adminRepo.Remove(targetEmail)
}

func (s *adminService) DatabaseStats() (map[string]interface{}, error) {
	stats := map[string]interface{}{}

	counts := map[string]func() (int64, error){
		"users":      s.userRepo.Count,
		"rules":      s.ruleRepo.Count,
		"categories": s.categoryRepo.Count,
		"doc_pages":  s.docPageRepo.Count,
		"admins":     s.adminRepo.Count,
		"sync_logs":  s.syncLogRepo.Count,
	}

	for table, count := range counts {
		n, err := count()
		if err != nil {
			return nil, err
		}
		stats[table] = n
	}

	if latest, err := s.syncLogRepo.GetLatest(); err == nil {
		stats["last_sync"] = latest
	}

	return stats, nil
}

// SimulateMaintenance reports backup/cleanup/optimize as completed without
// touching the database. The managed database service handles the real
// operations; these endpoints exist for dashboard parity.
func (s *adminService) SimulateMaintenance(operation string) map[string]interface{} {
	return map[string]interface{}{
		"operation": operation,
		"status":    "completed",
		"simulated": true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *adminService) ListUsers(page, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.userRepo.GetList(page, limit)
}

func (s *adminService) UserStats() (map[string]interface{}, error) {
	total, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}

	admins, err := s.adminRepo.Count()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_users":  total,
		"total_admins": admins,
	}, nil
}
