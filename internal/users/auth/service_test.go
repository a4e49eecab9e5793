// Copyright (c) 2026 Mogger. All rights reserved.

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/dberr"
	"github.com/amandag/mogger/internal/platform/sec"
	"github.com/amandag/mogger/internal/users/auth"
)

// # Test Fixtures

// fakeUserRepository keeps accounts in a map keyed by username.
type fakeUserRepository struct {
	users map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*auth.User{}}
}

func (r *fakeUserRepository) Find(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		found := *user
		return &found, nil
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	if _, ok := r.users[user.ID]; ok {
		return apperr.Conflict("Resource already exists")
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepository) Update(_ context.Context, user *auth.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return dberr.ErrNotFound
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.Group = user.Group
	return nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, userID, hash string, salt []byte) error {
	stored, ok := r.users[userID]
	if !ok {
		return dberr.ErrNotFound
	}
	stored.Hash = hash
	stored.Salt = salt
	stored.Rehash = false
	return nil
}

func (r *fakeUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepository) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// fakeSessionRepository keeps sessions in a map keyed by token.
type fakeSessionRepository struct {
	sessions map[string]*auth.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*auth.Session{}}
}

func (r *fakeSessionRepository) Create(_ context.Context, session *auth.Session) error {
	stored := *session
	r.sessions[session.ID] = &stored
	return nil
}

func (r *fakeSessionRepository) Find(_ context.Context, token string) (*auth.Session, error) {
	if session, ok := r.sessions[token]; ok {
		found := *session
		return &found, nil
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeSessionRepository) Delete(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepository) DeleteAll(_ context.Context, userID string) error {
	for token, session := range r.sessions {
		if session.User == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

// fakeTokenProvider returns a constant token without signing anything.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID string, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

func newService(users *fakeUserRepository, sessions *fakeSessionRepository, signups bool) *auth.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(users, sessions, fakeTokenProvider{}, signups, logger)
}

// seedUser registers amanda directly through the current hashing scheme.
func seedUser(t *testing.T, users *fakeUserRepository, username, password string) {
	t.Helper()

	salt, err := sec.GenerateSalt()
	require.NoError(t, err)
	hash, err := sec.HashPassword(password, salt)
	require.NoError(t, err)

	users.users[username] = &auth.User{
		ID:    username,
		Hash:  hash,
		Salt:  salt,
		Name:  username,
		Group: "member",
	}
}

/*
TestRegister verifies self-service signup including the feature flag and
duplicate handling.
*/
func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_member_account", func(t *testing.T) {
		users := newFakeUserRepository()
		service := newService(users, newFakeSessionRepository(), true)

		user, err := service.Register(ctx, auth.RegisterInput{
			Username: "amanda",
			Password: "correct horse",
			Name:     "Amanda",
			Email:    "amanda@example.net",
		})
		require.NoError(t, err)

		assert.Equal(t, "amanda", user.ID)
		assert.Equal(t, auth.GroupMember, user.Group)
		assert.False(t, user.Rehash)
		assert.True(t, user.VerifyPassword("correct horse"))
		assert.False(t, user.VerifyPassword("wrong horse"))
	})

	t.Run("signups_disabled", func(t *testing.T) {
		service := newService(newFakeUserRepository(), newFakeSessionRepository(), false)

		_, err := service.Register(ctx, auth.RegisterInput{
			Username: "amanda",
			Password: "correct horse",
			Name:     "Amanda",
		})
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("duplicate_username", func(t *testing.T) {
		users := newFakeUserRepository()
		seedUser(t, users, "amanda", "correct horse")
		service := newService(users, newFakeSessionRepository(), true)

		_, err := service.Register(ctx, auth.RegisterInput{
			Username: "amanda",
			Password: "another pass",
			Name:     "Impostor",
		})
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})
}

/*
TestInitialSetup verifies the bootstrap endpoint only works on an empty
user table and grants the admin group.
*/
func TestInitialSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("first_user_becomes_admin", func(t *testing.T) {
		users := newFakeUserRepository()
		service := newService(users, newFakeSessionRepository(), false)

		user, err := service.InitialSetup(ctx, auth.RegisterInput{
			Username: "root",
			Password: "super secret",
			Name:     "Root",
		})
		require.NoError(t, err)
		assert.Equal(t, auth.GroupAdmin, user.Group)
	})

	t.Run("refuses_once_any_user_exists", func(t *testing.T) {
		users := newFakeUserRepository()
		seedUser(t, users, "amanda", "correct horse")
		service := newService(users, newFakeSessionRepository(), false)

		_, err := service.InitialSetup(ctx, auth.RegisterInput{
			Username: "root",
			Password: "super secret",
			Name:     "Root",
		})
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})
}

/*
TestLogin verifies credential checking, session issuance, and the generic
rejection message for both unknown users and wrong passwords.
*/
func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid_credentials", func(t *testing.T) {
		users := newFakeUserRepository()
		sessions := newFakeSessionRepository()
		seedUser(t, users, "amanda", "correct horse")
		service := newService(users, sessions, true)

		login, err := service.Login(ctx, auth.LoginInput{Username: "amanda", Password: "correct horse"})
		require.NoError(t, err)

		assert.Equal(t, "amanda", login.User.ID)
		assert.Equal(t, "jwt-for-amanda", login.AccessToken)
		assert.NotEmpty(t, login.Session.ID)
		assert.WithinDuration(t, time.Now().Add(auth.SessionTTL), login.Session.Expires, time.Minute)

		// The session is resolvable afterwards.
		userID, err := service.ResolveSession(ctx, login.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, "amanda", userID)
	})

	t.Run("wrong_password", func(t *testing.T) {
		users := newFakeUserRepository()
		seedUser(t, users, "amanda", "correct horse")
		service := newService(users, newFakeSessionRepository(), true)

		_, err := service.Login(ctx, auth.LoginInput{Username: "amanda", Password: "wrong horse"})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("unknown_user_same_error", func(t *testing.T) {
		service := newService(newFakeUserRepository(), newFakeSessionRepository(), true)

		_, err := service.Login(ctx, auth.LoginInput{Username: "ghost", Password: "whatever"})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})
}

/*
TestLoginRehash verifies that accounts flagged for rehash are verified
against the legacy bcrypt-only scheme and upgraded in place on success.
*/
func TestLoginRehash(t *testing.T) {
	ctx := context.Background()

	legacyHash := func(t *testing.T, password string) string {
		t.Helper()
		raw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		return string(raw)
	}

	t.Run("upgrades_on_login", func(t *testing.T) {
		users := newFakeUserRepository()
		users.users["amanda"] = &auth.User{
			ID:     "amanda",
			Hash:   legacyHash(t, "correct horse"),
			Name:   "Amanda",
			Group:  "member",
			Rehash: true,
		}
		service := newService(users, newFakeSessionRepository(), true)

		_, err := service.Login(ctx, auth.LoginInput{Username: "amanda", Password: "correct horse"})
		require.NoError(t, err)

		upgraded := users.users["amanda"]
		assert.False(t, upgraded.Rehash)
		assert.NotEmpty(t, upgraded.Salt)
		assert.True(t, upgraded.VerifyPassword("correct horse"))

		// The next login goes through the current scheme.
		_, err = service.Login(ctx, auth.LoginInput{Username: "amanda", Password: "correct horse"})
		require.NoError(t, err)
	})

	t.Run("wrong_password_keeps_legacy_hash", func(t *testing.T) {
		users := newFakeUserRepository()
		users.users["amanda"] = &auth.User{
			ID:     "amanda",
			Hash:   legacyHash(t, "correct horse"),
			Name:   "Amanda",
			Group:  "member",
			Rehash: true,
		}
		service := newService(users, newFakeSessionRepository(), true)

		_, err := service.Login(ctx, auth.LoginInput{Username: "amanda", Password: "wrong horse"})
		require.Error(t, err)
		assert.True(t, users.users["amanda"].Rehash)
	})
}

/*
TestLogout verifies single-session and all-session revocation.
*/
func TestLogout(t *testing.T) {
	ctx := context.Background()

	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	seedUser(t, users, "amanda", "correct horse")
	service := newService(users, sessions, true)

	first, err := service.Login(ctx, auth.LoginInput{Username: "amanda", Password: "correct horse"})
	require.NoError(t, err)
	second, err := service.Login(ctx, auth.LoginInput{Username: "amanda", Password: "correct horse"})
	require.NoError(t, err)

	t.Run("logout_single", func(t *testing.T) {
		require.NoError(t, service.Logout(ctx, first.Session.ID))

		_, err := service.ResolveSession(ctx, first.Session.ID)
		assert.Error(t, err)
		_, err = service.ResolveSession(ctx, second.Session.ID)
		assert.NoError(t, err)
	})

	t.Run("logout_unknown_token_is_idempotent", func(t *testing.T) {
		assert.NoError(t, service.Logout(ctx, "no-such-token"))
	})

	t.Run("logout_all", func(t *testing.T) {
		require.NoError(t, service.LogoutAll(ctx, "amanda"))

		_, err := service.ResolveSession(ctx, second.Session.ID)
		assert.Error(t, err)
	})
}
