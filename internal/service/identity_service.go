package service

import (
	"context"
	"errors"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/repository"
	"exam_platform_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// IdentityService 身份适配器：从已认证的会话解析"当前用户"。
// 会话缓存是显式注入的 SessionStore（带 TTL），核心逻辑不碰全局状态。
type IdentityService struct {
	UserRepo *repository.UserRepository
	Sessions repository.SessionStore
	TTL      time.Duration
}

func NewIdentityService(userRepo *repository.UserRepository, sessions repository.SessionStore, ttl time.Duration) *IdentityService {
	return &IdentityService{UserRepo: userRepo, Sessions: sessions, TTL: ttl}
}

// Establish 登录成功后建立会话，返回会话 id
func (s *IdentityService) Establish(ctx context.Context, user *model.User) (string, error) {
	sessionID := model.GenerateUUID()
	claims := &util.Claims{
		UserID:    user.ID,
		SessionID: sessionID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
	}
	if err := s.Sessions.Put(ctx, sessionID, claims, s.TTL); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *IdentityService) Revoke(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

// GetActiveUser 从会话解析当前用户：会话缺失/过期，或姓名+邮箱
// 找不到匹配用户时，返回 ErrIdentityUnresolved 而不是让请求崩掉。
// 命中后滑动续期。
func (s *IdentityService) GetActiveUser(ctx context.Context, claims *util.Claims) (*model.User, error) {
	if claims == nil || claims.SessionID == "" {
		return nil, util.ErrIdentityUnresolved
	}

	cached, err := s.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			return nil, util.ErrIdentityUnresolved
		}
		return nil, err
	}

	user, err := s.UserRepo.FindByNameAndEmail(cached.Name, cached.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrIdentityUnresolved
		}
		return nil, err
	}
	if user.Disabled {
		return nil, util.ErrIdentityUnresolved
	}

	if err := s.Sessions.Put(ctx, claims.SessionID, cached, s.TTL); err != nil {
		return nil, err
	}
	return user, nil
}
