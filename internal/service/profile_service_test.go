package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

type mockProfileRepo struct {
	profiles  map[string]*models.Profile
	summaries []models.ProfileSummary
	listRole  models.ProfileRole
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfileRepo) ListBySchoolAndRole(ctx context.Context, schoolID string, role models.ProfileRole) ([]models.ProfileSummary, error) {
	m.listRole = role
	return m.summaries, nil
}

func TestGetProfileReturnsMatch(t *testing.T) {
	repo := &mockProfileRepo{profiles: map[string]*models.Profile{
		"stu-1": {ID: "stu-1", Name: "Amina", Role: models.RoleStudent},
	}}
	svc := NewProfileService(repo, nil)

	profile, err := svc.Get(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "Amina", profile.Name)
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewProfileService(&mockProfileRepo{}, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestGetProfileRequiresID(t *testing.T) {
	svc := NewProfileService(&mockProfileRepo{}, nil)

	_, err := svc.Get(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestStudentsOfSchoolFiltersByRole(t *testing.T) {
	repo := &mockProfileRepo{summaries: []models.ProfileSummary{{ID: "stu-1", Name: "Amina", Role: models.RoleStudent}}}
	svc := NewProfileService(repo, nil)

	students, err := svc.StudentsOfSchool(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, models.RoleStudent, repo.listRole)
}

func TestTeachersOfSchoolFiltersByRole(t *testing.T) {
	repo := &mockProfileRepo{}
	svc := NewProfileService(repo, nil)

	_, err := svc.TeachersOfSchool(context.Background(), "school-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, repo.listRole)
}
