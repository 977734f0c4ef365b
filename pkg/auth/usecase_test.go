package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	byID    map[uuid.UUID]User
	byEmail map[string]User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[uuid.UUID]User{}, byEmail: map[string]User{}}
}

func (m *memUserRepo) Create(_ context.Context, u User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrUserAlreadyExists
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (User, error) {
	u, ok := m.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) Update(_ context.Context, u User) error {
	old, ok := m.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	delete(m.byEmail, old.Email)
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

type staticTokens struct{}

func (staticTokens) Generate(_ context.Context, _ User) (string, error) { return "tok", nil }

type memRevocations struct {
	revoked map[string]time.Duration
}

func (m *memRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.revoked[tokenID] = ttl
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func newTestService() (AuthUseCase, *memUserRepo, *memRevocations) {
	repo := newMemUserRepo()
	rev := &memRevocations{revoked: map[string]time.Duration{}}
	return NewAuthService(repo, staticTokens{}, rev), repo, rev
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Register(ctx, "User@Example.com", "secret", "Иван Петров", RoleCompany)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", res.User.Email) // email нормализуется
	assert.Equal(t, RoleCompany, res.User.Role)
	assert.True(t, res.User.IsActive)
	assert.NotEqual(t, "secret", res.User.PasswordHash)
	assert.Equal(t, "tok", res.Token)

	got, err := svc.Login(ctx, "user@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, got.User.ID)
}

func TestRegisterDefaultsToApplicant(t *testing.T) {
	svc, _, _ := newTestService()

	res, err := svc.Register(context.Background(), "a@b.c", "pw", "", "")
	require.NoError(t, err)
	assert.Equal(t, RoleApplicant, res.User.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), "a@b.c", "pw", "", Role("ADMIN"))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.c", "pw", "", RoleApplicant)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "A@B.C", "pw2", "", RoleApplicant)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.c", "pw", "", RoleApplicant)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "missing@b.c", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateMe(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Register(ctx, "a@b.c", "pw", "Old Name", RoleApplicant)
	require.NoError(t, err)

	newName := "New Name"
	u, err := svc.UpdateMe(ctx, res.User.ID, ProfileUpdate{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "New Name", u.FullName)
	assert.Equal(t, "a@b.c", u.Email) // email не трогали

	taken := "b@b.c"
	_, err = svc.Register(ctx, taken, "pw", "", RoleApplicant)
	require.NoError(t, err)

	_, err = svc.UpdateMe(ctx, res.User.ID, ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, rev := newTestService()
	ctx := context.Background()

	err := svc.Logout(ctx, "jti-1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	gone, _ := rev.IsRevoked(ctx, "jti-1")
	assert.True(t, gone)

	// просроченный токен не попадает в хранилище
	err = svc.Logout(ctx, "jti-2", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	gone, _ = rev.IsRevoked(ctx, "jti-2")
	assert.False(t, gone)
}
