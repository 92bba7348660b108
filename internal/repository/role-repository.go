package repository

import (
	"errors"

	"github.com/NovaGest/crm_service/internal/domain"
	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByCode(code string) (*domain.Role, error)
	GetRoleCodeByUserID(userID uint) (string, error)
	AssignRole(userID, roleID uint) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByCode(code string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetRoleCodeByUserID(userID uint) (string, error) {
	var roleCode string

	err := r.db.
		Table("user_roles").
		Select("roles.code").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ?", userID).
		Limit(1).
		Scan(&roleCode).Error

	if err != nil {
		return "", err
	}
	if roleCode == "" {
		return "", errors.New("role not found for user")
	}
	return roleCode, nil
}

// AssignRole replaces any existing assignment; a user carries one role.
func (r *roleRepository) AssignRole(userID, roleID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Create(&domain.UserRole{UserID: userID, RoleID: roleID}).Error
	})
}
