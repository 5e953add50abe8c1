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

// ClassroomRepository handles persistence of classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs the repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// Create persists a new classroom.
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if classroom.ID == "" {
		classroom.ID = uuid.NewString()
	}
	if classroom.CreatedAt.IsZero() {
		classroom.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO classrooms (id, name, school_id, teacher_id, created_at)
        VALUES (:id, :name, :school_id, :teacher_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// FindByID returns a classroom by identifier.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	const query = `SELECT id, name, school_id, teacher_id, created_at FROM classrooms WHERE id = $1 LIMIT 1`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find classroom by id: %w", err)
	}
	return &classroom, nil
}

// FindTeacher returns the summary of the classroom's assigned teacher.
func (r *ClassroomRepository) FindTeacher(ctx context.Context, teacherID string) (*models.ProfileSummary, error) {
	const query = `SELECT id, name, role, profile_url, school_id FROM profiles WHERE id = $1 LIMIT 1`
	var teacher models.ProfileSummary
	if err := r.db.GetContext(ctx, &teacher, query, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find classroom teacher: %w", err)
	}
	return &teacher, nil
}
