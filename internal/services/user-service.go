package services

import (
	"errors"
	"strings"

	"github.com/NovaGest/crm_service/internal/domain"
	"github.com/NovaGest/crm_service/internal/dto"
	"github.com/NovaGest/crm_service/internal/helper"
	"github.com/NovaGest/crm_service/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Register(input dto.RegisterRequest) error
	Login(input dto.UserLogin) (string, error)
	GetProfile(userID uint) (*domain.User, error)
}

type userService struct {
	repo     repository.UserRepository
	roleRepo repository.RoleRepository
	auth     helper.Auth
}

func NewUserService(
	repo repository.UserRepository,
	roleRepo repository.RoleRepository,
	auth helper.Auth,
) UserService {
	return &userService{
		repo:     repo,
		roleRepo: roleRepo,
		auth:     auth,
	}
}

func (u *userService) Register(input dto.RegisterRequest) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	nome := strings.TrimSpace(input.Nome)
	role := strings.TrimSpace(strings.ToUpper(input.Role))

	if email == "" || strings.TrimSpace(input.Password) == "" || nome == "" {
		return errors.New("invalid inputs")
	}
	if role != domain.RoleTenant && role != domain.RoleGestor && role != domain.RoleParceiro {
		return errors.New("invalid role")
	}

	existing, err := u.repo.FindUserByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return errors.New("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user, err := u.repo.CreateUser(&domain.User{
		TenantID:     input.TenantID,
		Email:        email,
		PasswordHash: string(hash),
		Nome:         nome,
	})
	if err != nil {
		return err
	}

	roleRec, err := u.roleRepo.FindByCode(role)
	if err != nil {
		return errors.New("role not found")
	}
	return u.roleRepo.AssignRole(user.ID, roleRec.ID)
}

func (u *userService) Login(input dto.UserLogin) (string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		return "", ErrUnauthorized
	}
	if err := u.auth.VerifyPassword(input.Password, user.PasswordHash); err != nil {
		return "", ErrUnauthorized
	}

	role, err := u.roleRepo.GetRoleCodeByUserID(user.ID)
	if err != nil {
		return "", ErrUnauthorized
	}

	return u.auth.GenerateToken(user.ID, user.Email, role, user.TenantID)
}

func (u *userService) GetProfile(userID uint) (*domain.User, error) {
	user, err := u.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
