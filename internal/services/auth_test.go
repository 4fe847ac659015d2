package services

import (
	"errors"
	"testing"

	"github.com/cinetrack/movie-review-backend/internal/models"
)

const testJWTSecret = "test-jwt-secret"

func TestSignupAndLogin(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, testJWTSecret, nil, "http://localhost:8080")

	signup, err := auth.Signup(SignupRequest{
		Username: "neo",
		Email:    "neo@example.com",
		Password: "whiterabbit",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if signup.Tokens.AccessToken == "" || signup.Tokens.RefreshToken == "" {
		t.Fatal("expected token pair on signup")
	}
	if signup.User.Role != "user" {
		t.Fatalf("expected default role user, got %q", signup.User.Role)
	}

	// Stored password must be hashed.
	var stored models.User
	if err := db.First(&stored, signup.User.ID).Error; err != nil {
		t.Fatalf("fetch user: %v", err)
	}
	if stored.Password == "whiterabbit" {
		t.Fatal("password stored in plaintext")
	}

	login, err := auth.Login(LoginRequest{Email: "neo@example.com", Password: "whiterabbit"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != signup.User.ID {
		t.Fatal("login returned a different user")
	}
}

func TestSignup_Validation(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, testJWTSecret, nil, "http://localhost:8080")

	cases := []struct {
		name string
		req  SignupRequest
	}{
		{"short username", SignupRequest{Username: "ab", Email: "a@example.com", Password: "longenough"}},
		{"bad email", SignupRequest{Username: "valid", Email: "not-an-email", Password: "longenough"}},
		{"short password", SignupRequest{Username: "valid", Email: "a@example.com", Password: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := auth.Signup(tc.req); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, testJWTSecret, nil, "http://localhost:8080")

	if _, err := auth.Signup(SignupRequest{Username: "first", Email: "dup@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, err := auth.Signup(SignupRequest{Username: "second", Email: "dup@example.com", Password: "longenough"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate email, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, testJWTSecret, nil, "http://localhost:8080")

	if _, err := auth.Signup(SignupRequest{Username: "trinity", Email: "trinity@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, err := auth.Login(LoginRequest{Email: "trinity@example.com", Password: "wrongpassword"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshToken_RotatesAndRevokes(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, testJWTSecret, nil, "http://localhost:8080")

	signup, err := auth.Signup(SignupRequest{Username: "morpheus", Email: "morpheus@example.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	refreshed, err := auth.RefreshToken(RefreshRequest{RefreshToken: signup.Tokens.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.Tokens.RefreshToken == signup.Tokens.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	// The old token is revoked and cannot be used again.
	if _, err := auth.RefreshToken(RefreshRequest{RefreshToken: signup.Tokens.RefreshToken}); err == nil {
		t.Fatal("expected reuse of a rotated refresh token to fail")
	}
}

func TestUpdateProfile_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, testJWTSecret, nil, "http://localhost:8080")

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	if _, err := auth.UpdateProfile(owner.ID, other.ID, UpdateProfileRequest{Username: "hijacked"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := auth.UpdateProfile(owner.ID, owner.ID, UpdateProfileRequest{Username: "renamed"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Username != "renamed" {
		t.Fatalf("expected username renamed, got %q", updated.Username)
	}
}
