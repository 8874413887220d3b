package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/repository"
	"tradelab/backend/pkg/jwt"
	"tradelab/backend/pkg/redis"
)

// 认证模块业务错误
var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrAdminNotFound      = errors.New("账号不存在")
)

// AuthService 后台认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, adminID string) (*dto.AdminUserResponse, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	cache  *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, cache *redis.Client, logger *zap.Logger, accessTokenTTL time.Duration) AuthService {
	return &authService{
		repo:   repo,
		jwtMgr: jwtMgr,
		cache:  cache,
		logger: logger,
		ttl:    accessTokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.AdminUser.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 账号不存在与密码错误返回同一错误，避免账号枚举
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询后台账号失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.String("admin_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("后台账号登录", zap.String("admin_id", user.ID), zap.String("email", user.Email))

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.ttl.Seconds()),
		User: dto.AdminUserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// Logout 将当前 Token 的 jti 拉黑至其自然过期
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.cache == nil || claims == nil || claims.ID == "" {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if err := s.cache.BlacklistToken(ctx, claims.ID, remaining); err != nil {
		s.logger.Error("拉黑 Token 失败", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}

	s.logger.Info("后台账号登出", zap.String("admin_id", claims.AdminID))
	return nil
}

func (s *authService) Me(ctx context.Context, adminID string) (*dto.AdminUserResponse, error) {
	user, err := s.repo.AdminUser.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &dto.AdminUserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}
