package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medx-platform/medx-api/internal/lib/jwt"
	"github.com/medx-platform/medx-api/internal/lib/password"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	auth "github.com/medx-platform/medx-api/internal/services/auth"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

type mockUserRepo struct {
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
	byUID      map[string]*models.User
	registered []models.User
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{
		byUsername: map[string]*models.User{},
		byEmail:    map[string]*models.User{},
		byUID:      map[string]*models.User{},
	}
	for _, u := range users {
		m.byUsername[u.Username] = u
		m.byEmail[u.Email] = u
		m.byUID[u.UID] = u
	}
	return m
}

func (m *mockUserRepo) RegisterUser(_ context.Context, user models.User) (string, error) {
	user.UID = "new-uid"
	m.registered = append(m.registered, user)
	return user.UID, nil
}

func (m *mockUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUser(_ context.Context, userUID string) (*models.User, error) {
	u, ok := m.byUID[userUID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) UpdateDisplayName(_ context.Context, userUID, displayName string) (int64, error) {
	u, ok := m.byUID[userUID]
	if !ok {
		return 0, nil
	}
	u.DisplayName = displayName
	return 1, nil
}

type mockMailer struct {
	sent []string
}

func (m *mockMailer) SendPasswordReset(email, _, _ string) error {
	m.sent = append(m.sent, email)
	return nil
}

func makers() (jwt.Maker, jwt.Maker) {
	return jwt.NewJWTMaker("test-secret", time.Hour),
		jwt.NewJWTMaker("test-secret", 15*time.Minute)
}

func TestRegister_DefaultsToStudentWithoutPremium(t *testing.T) {
	repo := newMockUserRepo()
	access, reset := makers()
	svc := auth.NewAuthService(repo, access, reset, &mockMailer{}, sl.Discard())

	uid, err := svc.Register(context.Background(), "s@medx.example", "student1", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "new-uid", uid)

	require.Len(t, repo.registered, 1)
	stored := repo.registered[0]
	assert.Equal(t, models.RoleStudent, stored.Role)
	assert.Equal(t, "student1", stored.DisplayName)
	assert.False(t, stored.IsPremium)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	require.NoError(t, password.CompareHash(stored.PasswordHash, "secret123"))
}

func TestLogin_Success(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	user := &models.User{UID: "u1", Username: "student1", Role: models.RoleStudent, PasswordHash: hash}
	access, reset := makers()
	svc := auth.NewAuthService(newMockUserRepo(user), access, reset, &mockMailer{}, sl.Discard())

	token, role, err := svc.Login(context.Background(), "student1", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, role)

	parsed, valid, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "u1", parsed.UID)
	assert.Equal(t, "student1", parsed.Username)
}

func TestLogin_BadPasswordAndUnknownUserLookAlike(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	user := &models.User{UID: "u1", Username: "student1", Role: models.RoleStudent, PasswordHash: hash}
	access, reset := makers()
	svc := auth.NewAuthService(newMockUserRepo(user), access, reset, &mockMailer{}, sl.Discard())

	_, _, errBadPassword := svc.Login(context.Background(), "student1", "wrong")
	_, _, errUnknownUser := svc.Login(context.Background(), "ghost", "secret123")

	require.ErrorIs(t, errBadPassword, auth.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknownUser, auth.ErrInvalidCredentials)
}

func TestValidateToken_Garbage(t *testing.T) {
	access, reset := makers()
	svc := auth.NewAuthService(newMockUserRepo(), access, reset, &mockMailer{}, sl.Discard())

	_, valid, err := svc.ValidateToken(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.False(t, valid)
}

func TestUpdateDisplayName_Success(t *testing.T) {
	user := &models.User{UID: "u1", Username: "student1", DisplayName: "student1", Role: models.RoleStudent}
	access, reset := makers()
	svc := auth.NewAuthService(newMockUserRepo(user), access, reset, &mockMailer{}, sl.Discard())

	updated, err := svc.UpdateDisplayName(context.Background(), "u1", "Anna K.")
	require.NoError(t, err)
	assert.Equal(t, "Anna K.", updated.DisplayName)
	assert.Equal(t, "student1", updated.Username)
}

func TestUpdateDisplayName_UnknownUser(t *testing.T) {
	access, reset := makers()
	svc := auth.NewAuthService(newMockUserRepo(), access, reset, &mockMailer{}, sl.Discard())

	_, err := svc.UpdateDisplayName(context.Background(), "ghost", "Anna K.")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRequestPasswordReset_KnownEmail(t *testing.T) {
	user := &models.User{UID: "u1", Username: "student1", Email: "s@medx.example", Role: models.RoleStudent}
	mailer := &mockMailer{}
	access, reset := makers()
	svc := auth.NewAuthService(newMockUserRepo(user), access, reset, mailer, sl.Discard())

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "s@medx.example"))
	assert.Equal(t, []string{"s@medx.example"}, mailer.sent)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	mailer := &mockMailer{}
	access, reset := makers()
	svc := auth.NewAuthService(newMockUserRepo(), access, reset, mailer, sl.Discard())

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@medx.example"))
	assert.Empty(t, mailer.sent)
}
