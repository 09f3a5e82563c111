package service

import (
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService 处理用户相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUsers(page, limit int, search string) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit, search)
}

func (s *UserService) GetUserByID(id string) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

type CreateUserReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"omitempty,oneof=examinee admin"`
	Password string `json:"password"`
}

// CreateUser 管理员建档。口令可以为空，此时账号在设置口令前无法登录。
func (s *UserService) CreateUser(req CreateUserReq) (*model.User, error) {
	user := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  model.Examinee,
	}
	if req.Role != "" {
		user.Role = model.UserRole(req.Role)
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

type UpdateUserReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role" binding:"omitempty,oneof=examinee admin"`
	Disabled *bool   `json:"disabled"`
}

func (s *UserService) UpdateUser(id string, req UpdateUserReq) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = model.UserRole(*req.Role)
	}
	if req.Disabled != nil {
		user.Disabled = *req.Disabled
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(id string) error {
	return s.UserRepo.Delete(id)
}
