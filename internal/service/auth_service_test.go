package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"demoday/backend/config"
	"demoday/backend/internal/dto"
	"demoday/backend/internal/model"
	"demoday/backend/internal/repository"
	"demoday/backend/pkg/jwt"
)

func setupTestAuthService(t *testing.T) (AuthService, *mockUserRepo) {
	t.Helper()

	userRepo := newMockUserRepo()
	repo := &repository.Repository{User: userRepo}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-32-bytes-long!!!",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 720 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)

	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, userRepo
}

func seedUser(t *testing.T, userRepo *mockUserRepo, email, password, role string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	user := &model.User{
		UserID:       "user-" + email,
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	userRepo.users[user.UserID] = user
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新用户",
		Email:    "new@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if resp.Email != "new@example.com" {
		t.Errorf("期望邮箱 new@example.com，实际 %s", resp.Email)
	}

	stored, err := userRepo.GetByEmail(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("用户未持久化: %v", err)
	}
	if stored.Role != model.RoleUser {
		t.Errorf("新用户角色应为 user，实际 %s", stored.Role)
	}
	if stored.PasswordHash == "password123" {
		t.Error("密码不应明文存储")
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	seedUser(t, userRepo, "taken@example.com", "password123", model.RoleUser)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "重复用户",
		Email:    "taken@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	seedUser(t, userRepo, "user@example.com", "password123", model.RoleUser)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录成功应返回 Token 对")
	}
	if resp.User.Email != "user@example.com" {
		t.Errorf("期望用户邮箱 user@example.com，实际 %s", resp.User.Email)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	seedUser(t, userRepo, "user@example.com", "password123", model.RoleUser)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"密码错误", "user@example.com", "wrong-password"},
		{"用户不存在", "ghost@example.com", "password123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: tc.email, Password: tc.password})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
			}
		})
	}
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	seedUser(t, userRepo, "user@example.com", "password123", model.RoleUser)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新后应返回新的 AccessToken")
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	seedUser(t, userRepo, "user@example.com", "password123", model.RoleUser)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// 用 AccessToken 冒充刷新凭证
	_, err = svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.AccessToken,
	})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	user := seedUser(t, userRepo, "user@example.com", "password123", model.RoleUser)

	if err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "new-password-456",
	}); err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码可登录，旧密码失效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@example.com", Password: "new-password-456",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@example.com", Password: "password123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
}

func TestAuthService_ChangePassword_OldPasswordWrong(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	user := seedUser(t, userRepo, "user@example.com", "password123", model.RoleUser)

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "new-password-456",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}
}

func TestAuthService_GetCurrentUser_NotFound(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	if _, err := svc.GetCurrentUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
