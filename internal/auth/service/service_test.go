package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/auth/domain"
	"github.com/dinetab/messbook/internal/auth/repository"
	"github.com/dinetab/messbook/internal/clock"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	fc := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))

	repo, sessionRepo := repository.New(db)
	svc := New(Params{
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fc,
		Repo:        repo,
		SessionRepo: sessionRepo,
	})
	return svc, fc
}

func TestCreateUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "Alice@Example.COM",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.DisplayName != "alice" {
		t.Fatalf("unexpected display name: %q", user.DisplayName)
	}
	if user.PasswordHash == nil || *user.PasswordHash == "correct horse" {
		t.Fatal("password stored in the clear")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@b.com", Password: "correct horse"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "A@B.com", Password: "another pass"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestCreateUserShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{Email: "a@b.com", Password: "short"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, fc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@b.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != user.ID {
		t.Fatal("login returned wrong user")
	}
	if result.RawToken == "" {
		t.Fatal("missing session token")
	}
	if want := fc.Now().Add(7 * 24 * time.Hour); !result.ExpiresAt.Equal(want) {
		t.Fatalf("expiry %v, want %v", result.ExpiresAt, want)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@b.com", Password: "correct horse"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "wrong horse"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "nobody@b.com", Password: "whatever1"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@b.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	result, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	session, err := svc.Authenticate(ctx, result.RawToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if session.UserID != user.ID {
		t.Fatal("session bound to wrong user")
	}
}

func TestAuthenticateExpired(t *testing.T) {
	svc, fc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@b.com", Password: "correct horse"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	result, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fc.Advance(8 * 24 * time.Hour)

	_, err = svc.Authenticate(ctx, result.RawToken)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthenticateRevoked(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@b.com", Password: "correct horse"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	result, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, result.RawToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, err = svc.Authenticate(ctx, result.RawToken)
	if !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestAuthenticateGarbageToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	if !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@b.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "fresh password"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "correct horse"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "fresh password"}); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}
