package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
)

func TestProfileCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profiles")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := &models.Profile{Email: "amina@example.com", PasswordHash: "hash", Role: models.RoleStudent}
	require.NoError(t, repo.Create(context.Background(), profile))
	require.NotEmpty(t, profile.ID)
	require.False(t, profile.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash")).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBySchoolAndRole(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)
	rows := sqlmock.NewRows([]string{"id", "name", "role", "profile_url", "school_id"}).
		AddRow("stu-1", "Amina", "student", nil, "school-1")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, role, profile_url, school_id FROM profiles WHERE school_id = $1 AND role = $2")).
		WithArgs("school-1", models.RoleStudent).
		WillReturnRows(rows)

	students, err := repo.ListBySchoolAndRole(context.Background(), "school-1", models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, "Amina", students[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profileID := "profile-1"
	log := &models.AuditLog{
		ProfileID:  &profileID,
		Action:     models.AuditActionSignIn,
		Resource:   "auth",
		ResourceID: &profileID,
		IPAddress:  "127.0.0.1",
		UserAgent:  "test-agent",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.CreateAuditLog(context.Background(), log))
	require.NotEmpty(t, log.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
