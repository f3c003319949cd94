package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/config"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userStore UserStore
	cache     TokenCache
	jwtCfg    config.JWTConfig
}

func NewAuthService(userStore UserStore, cache TokenCache, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		userStore: userStore,
		cache:     cache,
		jwtCfg:    jwtCfg,
	}
}

// Login 摄影师登录
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 更新最后登录时间
	now := time.Now()
	user.LastLoginAt = &now
	s.userStore.UpdateLastLogin(ctx, user.ID, now)

	// 生成 Access Token（短期，2小时）
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	// 生成 Refresh Token（长期，7天），存入 Redis
	refreshToken, err := s.generateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetRefreshToken(user.ID, refreshToken, 7*24*time.Hour); err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    2 * 60 * 60, // 2小时
		User:         user,
	}, nil
}

// RefreshToken 刷新访问令牌
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*model.RefreshTokenResponse, error) {
	// 从 Redis 验证 Refresh Token
	userID, err := s.cache.GetUserIDByRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	newRefreshToken, err := s.generateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	// 删除旧的 Refresh Token，存储新的
	s.cache.DeleteRefreshToken(refreshToken)
	if err := s.cache.SetRefreshToken(user.ID, newRefreshToken, 7*24*time.Hour); err != nil {
		return nil, err
	}

	return &model.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    2 * 60 * 60,
	}, nil
}

// Logout 登出（撤销 Refresh Token）
func (s *AuthService) Logout(refreshToken string) error {
	return s.cache.DeleteRefreshToken(refreshToken)
}

// GetUserByID 获取用户信息
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userStore.GetByID(ctx, id)
}

// generateAccessToken 生成访问令牌（短期）
func (s *AuthService) generateAccessToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"type":     "access",
		"exp":      time.Now().Add(2 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

// generateRefreshToken 生成刷新令牌（长期）
func (s *AuthService) generateRefreshToken(userID int64) (string, error) {
	random, err := utils.GenerateToken(32)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d_%s", userID, random), nil
}
