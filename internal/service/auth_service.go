package service

import (
	"context"
	"errors"
	"exam_platform_backend/internal/config"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/repository"
	"exam_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Identity *IdentityService
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, identity *IdentityService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Identity: identity,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

// Login 校验口令、建立会话并签发携带会话 id 的 JWT
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}
	if user.Disabled {
		return "", errors.New("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	sessionID, err := s.Identity.Establish(ctx, user)
	if err != nil {
		return "", err
	}

	go s.UserRepo.UpdateLastLogin(user.ID)

	return util.GenerateJWT(user, sessionID, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.SessionID == "" {
		return nil
	}
	return s.Identity.Revoke(ctx, claims.SessionID)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) (*model.User, error) {
	claims := util.GetUserFromContext(c)
	return s.Identity.GetActiveUser(c.Request.Context(), claims)
}
