package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
)

// ProgressRepository handles persistence of the enrollment/progress
// ledger.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs the repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ListByStudent returns every progress row for a student across all
// classrooms.
func (r *ProgressRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Progress, error) {
	const query = `SELECT id, student_id, classroom_id, subject, score, remarks, created_at FROM progress WHERE student_id = $1 ORDER BY created_at`
	var rows []models.Progress
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list progress by student: %w", err)
	}
	return rows, nil
}

// ListDetailByStudent returns the student's rows joined with the
// student profile.
func (r *ProgressRepository) ListDetailByStudent(ctx context.Context, studentID string) ([]models.ProgressDetail, error) {
	const query = `SELECT pr.id, pr.student_id, pr.classroom_id, pr.subject, pr.score, pr.remarks, pr.created_at,
        p.name AS student_name, p.profile_url AS student_profile_url
        FROM progress pr
        JOIN profiles p ON p.id = pr.student_id
        WHERE pr.student_id = $1 ORDER BY pr.created_at`
	var rows []models.ProgressDetail
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list progress detail by student: %w", err)
	}
	return rows, nil
}

// RosterByClassroom returns the de-duplicated student profiles
// referenced by the classroom's progress rows. A student graded in
// several subjects still appears once.
func (r *ProgressRepository) RosterByClassroom(ctx context.Context, classroomID string) ([]models.ProfileSummary, error) {
	const query = `SELECT DISTINCT p.id, p.name, p.role, p.profile_url, p.school_id
        FROM progress pr
        JOIN profiles p ON p.id = pr.student_id
        WHERE pr.classroom_id = $1
        ORDER BY p.name`
	var roster []models.ProfileSummary
	if err := r.db.SelectContext(ctx, &roster, query, classroomID); err != nil {
		return nil, fmt.Errorf("list classroom roster: %w", err)
	}
	return roster, nil
}

// CreateIfUnenrolled inserts the placeholder enrollment row only when
// the student has no progress rows anywhere. The guard runs inside the
// insert itself, so two concurrent enrolls for the same student cannot
// both land. Returns false when the row was not inserted.
func (r *ProgressRepository) CreateIfUnenrolled(ctx context.Context, row *models.Progress) (bool, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO progress (id, student_id, classroom_id, subject, score, remarks, created_at)
        SELECT $1, $2, $3, $4, $5, $6, $7
        WHERE NOT EXISTS (SELECT 1 FROM progress WHERE student_id = $2)`
	res, err := r.db.ExecContext(ctx, query, row.ID, row.StudentID, row.ClassroomID, row.Subject, row.Score, row.Remarks, row.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("create enrollment row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create enrollment row: %w", err)
	}
	return affected == 1, nil
}

// Create appends a graded progress row.
func (r *ProgressRepository) Create(ctx context.Context, row *models.Progress) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO progress (id, student_id, classroom_id, subject, score, remarks, created_at)
        VALUES (:id, :student_id, :classroom_id, :subject, :score, :remarks, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

// UpdateFields applies a partial update to the row and returns the
// updated record. sql.ErrNoRows signals an unknown id.
func (r *ProgressRepository) UpdateFields(ctx context.Context, id string, subject *string, score *int, remarks *string) (*models.Progress, error) {
	var sets []string
	var args []interface{}
	args = append(args, id)

	if subject != nil {
		sets = append(sets, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, *subject)
	}
	if score != nil {
		sets = append(sets, fmt.Sprintf("score = $%d", len(args)+1))
		args = append(args, *score)
	}
	if remarks != nil {
		sets = append(sets, fmt.Sprintf("remarks = $%d", len(args)+1))
		args = append(args, *remarks)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("update progress: no fields")
	}

	query := fmt.Sprintf(`UPDATE progress SET %s WHERE id = $1
        RETURNING id, student_id, classroom_id, subject, score, remarks, created_at`, strings.Join(sets, ", "))
	var row models.Progress
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update progress: %w", err)
	}
	return &row, nil
}

// DeleteByID removes one row and reports how many rows matched.
func (r *ProgressRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM progress WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete progress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete progress: %w", err)
	}
	return affected, nil
}

// DeleteByStudentAndClassroom removes every row for the pair in one
// statement. Zero matches is not an error.
func (r *ProgressRepository) DeleteByStudentAndClassroom(ctx context.Context, studentID, classroomID string) (int64, error) {
	const query = `DELETE FROM progress WHERE student_id = $1 AND classroom_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, classroomID)
	if err != nil {
		return 0, fmt.Errorf("remove student progress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("remove student progress: %w", err)
	}
	return affected, nil
}

// GradeSheetByClassroom returns the classroom's graded rows joined with
// student names, ordered for export.
func (r *ProgressRepository) GradeSheetByClassroom(ctx context.Context, classroomID string) ([]models.GradeSheetRow, error) {
	const query = `SELECT p.name AS student_name, pr.subject, pr.score, pr.remarks
        FROM progress pr
        JOIN profiles p ON p.id = pr.student_id
        WHERE pr.classroom_id = $1
        ORDER BY p.name, pr.subject`
	var rows []models.GradeSheetRow
	if err := r.db.SelectContext(ctx, &rows, query, classroomID); err != nil {
		return nil, fmt.Errorf("load classroom grade sheet: %w", err)
	}
	return rows, nil
}
