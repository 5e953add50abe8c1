package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

type authProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SessionConfig defines token issuing parameters.
type SessionConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// AuthService provides signup, signin and session verification.
type AuthService struct {
	profiles  authProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    SessionConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(profiles authProfileRepository, validate *validator.Validate, logger *zap.Logger, config SessionConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiry <= 0 {
		config.Expiry = 7 * 24 * time.Hour
	}
	return &AuthService{profiles: profiles, validator: validate, logger: logger, config: config}
}

// SignUp registers a new profile and issues a session token. The role
// defaults to student when absent, mirroring the signup form.
func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest, ip, userAgent string) (*models.Profile, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email and password are required")
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if !req.Role.Valid() {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	if _, err := s.profiles.FindByEmail(ctx, req.Email); err == nil {
		return nil, "", appErrors.Clone(appErrors.ErrEmailTaken, "")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	profile := &models.Profile{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         req.Role,
		SchoolID:     req.SchoolID,
		ProfileURL:   req.ProfileURL,
		RollNumber:   req.RollNumber,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create profile")
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	s.audit(ctx, profile.ID, models.AuditActionSignUp, ip, userAgent)
	return profile, token, nil
}

// SignIn authenticates credentials and issues a fresh session token.
// Failures never say whether the email or the password was wrong.
func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest, ip, userAgent string) (*models.Profile, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email and password are required")
	}

	profile, err := s.profiles.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	s.audit(ctx, profile.ID, models.AuditActionSignIn, ip, userAgent)
	return profile, token, nil
}

// Authenticate verifies a session token and loads the caller's profile.
// Any verification failure is reported as plain unauthenticated; no
// detail about the token leaks to the caller.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.SessionClaims, *models.Profile, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.profiles.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return claims, profile, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, appErrors.ErrUnauthorized.Message)
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	return claims, nil
}

// RecordLogout writes the logout audit entry. Clearing the cookie is
// the handler's job; there is no server-side session state to revoke.
func (s *AuthService) RecordLogout(ctx context.Context, profileID, ip, userAgent string) {
	s.audit(ctx, profileID, models.AuditActionLogout, ip, userAgent)
}

func (s *AuthService) issueToken(profile *models.Profile) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.SessionClaims{
		ID:    profile.ID,
		Email: profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   profile.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

func (s *AuthService) audit(ctx context.Context, profileID, action, ip, userAgent string) {
	if err := s.profiles.CreateAuditLog(ctx, &models.AuditLog{
		ProfileID:  &profileID,
		Action:     action,
		Resource:   "auth",
		ResourceID: &profileID,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}); err != nil {
		s.logger.Warn("failed to record auth audit log", zap.Error(err))
	}
}
