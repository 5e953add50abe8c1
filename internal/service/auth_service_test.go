package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

type mockAuthRepo struct {
	byEmail map[string]*models.Profile
	byID    map[string]*models.Profile
	audits  []models.AuditLog
}

func (m *mockAuthRepo) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = "profile-new"
	}
	if m.byEmail == nil {
		m.byEmail = make(map[string]*models.Profile)
	}
	if m.byID == nil {
		m.byID = make(map[string]*models.Profile)
	}
	m.byEmail[profile.Email] = profile
	m.byID[profile.ID] = profile
	return nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if p, ok := m.byEmail[email]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.audits = append(m.audits, *log)
	return nil
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, nil, nil, SessionConfig{Secret: "test-secret", Expiry: 7 * 24 * time.Hour, Issuer: "test"})
}

func TestSignUpDefaultsRoleToStudent(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo)

	profile, token, err := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:    "amina@example.com",
		Password: "secret123",
		Name:     "Amina",
	}, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, profile.Role)
	assert.NotEmpty(t, token)
	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionSignUp, repo.audits[0].Action)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{byEmail: map[string]*models.Profile{
		"amina@example.com": {ID: "profile-1", Email: "amina@example.com"},
	}}
	svc := newAuthService(repo)

	_, _, err := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:    "amina@example.com",
		Password: "secret123",
	}, "", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmailTaken.Code, appErrors.FromError(err).Code)
}

func TestSignUpHashesPassword(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo)

	profile, _, err := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:    "amina@example.com",
		Password: "secret123",
	}, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", profile.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte("secret123")))
}

func TestSignInWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthRepo{byEmail: map[string]*models.Profile{
		"amina@example.com": {ID: "profile-1", Email: "amina@example.com", PasswordHash: string(hash)},
	}}
	svc := newAuthService(repo)

	_, _, wrongPass := svc.SignIn(context.Background(), models.SignInRequest{Email: "amina@example.com", Password: "wrong"}, "", "")
	_, _, unknown := svc.SignIn(context.Background(), models.SignInRequest{Email: "ghost@example.com", Password: "wrong"}, "", "")
	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, appErrors.FromError(wrongPass).Message, appErrors.FromError(unknown).Message)
	assert.Equal(t, 401, appErrors.FromError(wrongPass).Status)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthRepo{
		byEmail: map[string]*models.Profile{
			"amina@example.com": {ID: "profile-1", Email: "amina@example.com", PasswordHash: string(hash)},
		},
		byID: map[string]*models.Profile{
			"profile-1": {ID: "profile-1", Email: "amina@example.com"},
		},
	}
	svc := newAuthService(repo)

	_, token, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "amina@example.com", Password: "secret123"}, "", "")
	require.NoError(t, err)

	claims, profile, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "profile-1", claims.ID)
	assert.Equal(t, "amina@example.com", claims.Email)
	assert.Equal(t, "profile-1", profile.ID)
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo)

	other := NewAuthService(repo, nil, nil, SessionConfig{Secret: "other-secret", Expiry: time.Hour})
	profile := &models.Profile{ID: "profile-1", Email: "amina@example.com"}
	require.NoError(t, repo.Create(context.Background(), profile))
	token, err := other.issueToken(profile)
	require.NoError(t, err)

	_, _, err = svc.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	repo := &mockAuthRepo{}
	profile := &models.Profile{ID: "profile-1", Email: "amina@example.com"}
	require.NoError(t, repo.Create(context.Background(), profile))

	claims := &models.SessionClaims{
		ID:    profile.ID,
		Email: profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	svc := newAuthService(repo)
	_, _, err = svc.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}
