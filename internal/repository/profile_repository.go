package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
)

// ProfileRepository provides database access to the identity store.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	const query = `INSERT INTO profiles (id, email, password_hash, name, role, school_id, profile_url, roll_number, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :name, :role, :school_id, :profile_url, :roll_number, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// FindByID returns a profile by identifier.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	const query = `SELECT id, email, password_hash, name, role, school_id, profile_url, roll_number, created_at, updated_at FROM profiles WHERE id = $1 LIMIT 1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &profile, nil
}

// FindByEmail returns a profile by email address.
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	const query = `SELECT id, email, password_hash, name, role, school_id, profile_url, roll_number, created_at, updated_at FROM profiles WHERE email = $1 LIMIT 1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by email: %w", err)
	}
	return &profile, nil
}

// ListBySchoolAndRole returns the school's profiles holding the role.
func (r *ProfileRepository) ListBySchoolAndRole(ctx context.Context, schoolID string, role models.ProfileRole) ([]models.ProfileSummary, error) {
	const query = `SELECT id, name, role, profile_url, school_id FROM profiles WHERE school_id = $1 AND role = $2 ORDER BY name`
	var profiles []models.ProfileSummary
	if err := r.db.SelectContext(ctx, &profiles, query, schoolID, role); err != nil {
		return nil, fmt.Errorf("list profiles by school and role: %w", err)
	}
	return profiles, nil
}

// CreateAuditLog stores an audit trail entry.
func (r *ProfileRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, profile_id, action, resource, resource_id, ip_address, user_agent, created_at)
        VALUES (:id, :profile_id, :action, :resource, :resource_id, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
