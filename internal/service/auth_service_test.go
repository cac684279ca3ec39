package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tube-go/internal/api/dto"
	"tube-go/internal/config"
)

func loadAuthTestConfig(t *testing.T) {
	t.Helper()
	yaml := `
app:
  name: tube-go
jwt:
  secret: test-secret
  expire_hours: 1
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("load config: %v", err)
	}
}

func TestRegister_And_Login(t *testing.T) {
	loadAuthTestConfig(t)

	s := newMemStore()
	svc := NewAuthService(&fakeUserRepo{s})

	info, err := svc.Register(&dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@test.local",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if info.ID == 0 || info.Username != "alice" || info.UserRole != "user" {
		t.Errorf("unexpected user info: %+v", info)
	}

	// 密码以哈希存储
	if s.users[info.ID].Password == "s3cret" {
		t.Error("password should be stored hashed")
	}

	tokenData, err := svc.Login(&dto.LoginRequest{Email: "alice@test.local", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if tokenData.Token == "" || tokenData.TokenType != "bearer" {
		t.Errorf("unexpected token data: %+v", tokenData)
	}
	if tokenData.User.ID != info.ID {
		t.Errorf("token user = %d, want %d", tokenData.User.ID, info.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newMemStore()
	s.addUser("alice")

	svc := NewAuthService(&fakeUserRepo{s})

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "alice2",
		Email:    "alice@test.local",
		Password: "s3cret",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestLogin_InvalidCredential(t *testing.T) {
	loadAuthTestConfig(t)

	s := newMemStore()
	svc := NewAuthService(&fakeUserRepo{s})

	if _, err := svc.Register(&dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@test.local",
		Password: "s3cret",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// 密码错误
	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@test.local", Password: "wrong"}); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	// 邮箱不存在
	if _, err := svc.Login(&dto.LoginRequest{Email: "ghost@test.local", Password: "s3cret"}); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	s := newMemStore()
	alice := s.addUser("alice")

	svc := NewAuthService(&fakeUserRepo{s})

	info, err := svc.GetCurrentUser(alice.ID)
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if info.ID != alice.ID || info.Username != "alice" {
		t.Errorf("unexpected user info: %+v", info)
	}

	if _, err := svc.GetCurrentUser(404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
