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

// SchoolRepository handles persistence of schools.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs the repository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// CreateWithHead inserts the school and links the creating head's
// profile to it inside one transaction, so a failed profile update can
// never leave an orphaned school behind.
func (r *SchoolRepository) CreateWithHead(ctx context.Context, school *models.School, headProfileID string) (*models.Profile, error) {
	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	if school.CreatedAt.IsZero() {
		school.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create school: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertSchool = `INSERT INTO schools (id, name, email, location, phone, logo_url, banner_url, created_at)
        VALUES (:id, :name, :email, :location, :phone, :logo_url, :banner_url, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertSchool, school); err != nil {
		return nil, fmt.Errorf("insert school: %w", err)
	}

	const updateProfile = `UPDATE profiles SET school_id = $2, updated_at = $3 WHERE id = $1
        RETURNING id, email, password_hash, name, role, school_id, profile_url, roll_number, created_at, updated_at`
	var profile models.Profile
	if err := tx.GetContext(ctx, &profile, updateProfile, headProfileID, school.ID, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("link head profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create school: %w", err)
	}
	return &profile, nil
}

// FindByID returns a school by identifier.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.School, error) {
	const query = `SELECT id, name, email, location, phone, logo_url, banner_url, created_at FROM schools WHERE id = $1 LIMIT 1`
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find school by id: %w", err)
	}
	return &school, nil
}

// List returns all schools.
func (r *SchoolRepository) List(ctx context.Context) ([]models.School, error) {
	const query = `SELECT id, name, email, location, phone, logo_url, banner_url, created_at FROM schools ORDER BY created_at DESC`
	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, query); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// ListClassrooms returns the classrooms owned by the school.
func (r *SchoolRepository) ListClassrooms(ctx context.Context, schoolID string) ([]models.Classroom, error) {
	const query = `SELECT id, name, school_id, teacher_id, created_at FROM classrooms WHERE school_id = $1 ORDER BY created_at`
	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query, schoolID); err != nil {
		return nil, fmt.Errorf("list school classrooms: %w", err)
	}
	return classrooms, nil
}

// ListProfiles returns every profile belonging to the school.
func (r *SchoolRepository) ListProfiles(ctx context.Context, schoolID string) ([]models.ProfileSummary, error) {
	const query = `SELECT id, name, role, profile_url, school_id FROM profiles WHERE school_id = $1 ORDER BY name`
	var profiles []models.ProfileSummary
	if err := r.db.SelectContext(ctx, &profiles, query, schoolID); err != nil {
		return nil, fmt.Errorf("list school profiles: %w", err)
	}
	return profiles, nil
}
