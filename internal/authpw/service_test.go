package authpw

import (
	"context"
	"errors"
	"testing"
	"time"

	"relay/api/internal/store"
)

// mockUserStore is a mock implementation of UserStore for testing
type mockUserStore struct {
	users         map[string]store.User
	emailIndex    map[string]string // email -> userID
	verifications map[string]store.User
	resets        map[string]string // token -> userID
	usedResets    map[string]bool
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		users:         make(map[string]store.User),
		emailIndex:    make(map[string]string),
		verifications: make(map[string]store.User),
		resets:        make(map[string]string),
		usedResets:    make(map[string]bool),
	}
}

func (m *mockUserStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	if userID, ok := m.emailIndex[email]; ok {
		return m.users[userID], nil
	}
	return store.User{}, errors.New("user not found")
}

func (m *mockUserStore) GetUserByID(_ context.Context, id string) (store.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return store.User{}, errors.New("user not found")
}

func (m *mockUserStore) CreateUser(_ context.Context, user store.User) error {
	m.users[user.ID] = user
	m.emailIndex[user.Email] = user.ID
	return nil
}

func (m *mockUserStore) UpdateUserVerificationToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	if user, ok := m.users[userID]; ok {
		user.VerificationToken = token
		user.VerificationExpiresAt = &expiresAt
		m.users[userID] = user
		m.verifications[token] = user
	}
	return nil
}

func (m *mockUserStore) VerifyUserEmail(_ context.Context, token string) error {
	if user, ok := m.verifications[token]; ok {
		user.IsEmailVerified = true
		m.users[user.ID] = user
		m.emailIndex[user.Email] = user.ID
		return nil
	}
	return errors.New("invalid token")
}

func (m *mockUserStore) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	if user, ok := m.users[userID]; ok {
		user.PasswordHash = passwordHash
		m.users[userID] = user
	}
	return nil
}

func (m *mockUserStore) CreatePasswordReset(_ context.Context, userID, token string, _ time.Time) error {
	m.resets[token] = userID
	return nil
}

func (m *mockUserStore) GetPasswordReset(_ context.Context, token string) (string, error) {
	if m.usedResets[token] {
		return "", errors.New("token used")
	}
	if userID, ok := m.resets[token]; ok {
		return userID, nil
	}
	return "", errors.New("token not found")
}

func (m *mockUserStore) MarkPasswordResetUsed(_ context.Context, token string) error {
	m.usedResets[token] = true
	return nil
}

func TestSignUp(t *testing.T) {
	svc := NewService(newMockUserStore())
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, SignUpRequest{
		Email:       "avery@example.com",
		Password:    "long-enough",
		DisplayName: "Avery",
	})
	if err != nil {
		t.Fatalf("SignUp error = %v", err)
	}
	if resp.UserID == "" {
		t.Fatal("expected user id")
	}
	if !resp.RequiresEmailVerify || resp.VerificationToken == "" {
		t.Fatal("expected email verification to be required")
	}

	// Duplicate email is rejected.
	if _, err := svc.SignUp(ctx, SignUpRequest{
		Email:       "avery@example.com",
		Password:    "long-enough",
		DisplayName: "Avery Again",
	}); err == nil {
		t.Fatal("expected duplicate email error")
	}
}

func TestSignUpValidation(t *testing.T) {
	svc := NewService(newMockUserStore())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpRequest{Email: "a@b.c", Password: "short", DisplayName: "A"}); err == nil {
		t.Fatal("expected short password to fail")
	}
	if _, err := svc.SignUp(ctx, SignUpRequest{Password: "long-enough", DisplayName: "A"}); err == nil {
		t.Fatal("expected missing email to fail")
	}
}

func TestSignIn(t *testing.T) {
	mock := newMockUserStore()
	svc := NewService(mock)
	ctx := context.Background()

	signup, err := svc.SignUp(ctx, SignUpRequest{
		Email:       "avery@example.com",
		Password:    "long-enough",
		DisplayName: "Avery",
	})
	if err != nil {
		t.Fatalf("SignUp error = %v", err)
	}

	// Unverified users get a verify-required response, not a session.
	resp, err := svc.SignIn(ctx, SignInRequest{Email: "avery@example.com", Password: "long-enough"})
	if err != nil {
		t.Fatalf("SignIn error = %v", err)
	}
	if !resp.RequiresVerify {
		t.Fatal("expected RequiresVerify before email verification")
	}

	if err := svc.VerifyEmail(ctx, signup.VerificationToken); err != nil {
		t.Fatalf("VerifyEmail error = %v", err)
	}

	resp, err = svc.SignIn(ctx, SignInRequest{Email: "avery@example.com", Password: "long-enough"})
	if err != nil {
		t.Fatalf("SignIn after verify error = %v", err)
	}
	if resp.RequiresVerify {
		t.Fatal("unexpected RequiresVerify after verification")
	}
	if resp.User.ID != signup.UserID {
		t.Fatalf("signed-in user = %q, want %q", resp.User.ID, signup.UserID)
	}

	if _, err := svc.SignIn(ctx, SignInRequest{Email: "avery@example.com", Password: "wrong-password"}); err == nil {
		t.Fatal("expected wrong password to fail")
	}
	if _, err := svc.SignIn(ctx, SignInRequest{Email: "nobody@example.com", Password: "long-enough"}); err == nil {
		t.Fatal("expected unknown email to fail")
	}
}

func TestPasswordReset(t *testing.T) {
	mock := newMockUserStore()
	svc := NewService(mock)
	ctx := context.Background()

	signup, err := svc.SignUp(ctx, SignUpRequest{
		Email:       "avery@example.com",
		Password:    "long-enough",
		DisplayName: "Avery",
	})
	if err != nil {
		t.Fatalf("SignUp error = %v", err)
	}
	if err := svc.VerifyEmail(ctx, signup.VerificationToken); err != nil {
		t.Fatalf("VerifyEmail error = %v", err)
	}

	token, err := svc.RequestPasswordReset(ctx, "avery@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset error = %v", err)
	}
	if token == "" {
		t.Fatal("expected reset token")
	}

	// Unknown email must not reveal anything.
	silent, err := svc.RequestPasswordReset(ctx, "nobody@example.com")
	if err != nil || silent != "" {
		t.Fatalf("RequestPasswordReset for unknown email = (%q, %v)", silent, err)
	}

	if err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "new-password"}); err != nil {
		t.Fatalf("ResetPassword error = %v", err)
	}

	if _, err := svc.SignIn(ctx, SignInRequest{Email: "avery@example.com", Password: "new-password"}); err != nil {
		t.Fatalf("SignIn with new password error = %v", err)
	}
	if _, err := svc.SignIn(ctx, SignInRequest{Email: "avery@example.com", Password: "long-enough"}); err == nil {
		t.Fatal("expected old password to fail")
	}

	// Reset tokens are single use.
	if err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "another-password"}); err == nil {
		t.Fatal("expected used token to fail")
	}
}
