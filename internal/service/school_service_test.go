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

type mockSchoolRepo struct {
	schools    map[string]*models.School
	classrooms []models.Classroom
	profiles   []models.ProfileSummary
	headBound  string
	failCreate error
}

func (m *mockSchoolRepo) CreateWithHead(ctx context.Context, school *models.School, headProfileID string) (*models.Profile, error) {
	if m.failCreate != nil {
		return nil, m.failCreate
	}
	school.ID = "school-new"
	m.headBound = headProfileID
	return &models.Profile{ID: headProfileID, Role: models.RoleHead, SchoolID: &school.ID}, nil
}

func (m *mockSchoolRepo) FindByID(ctx context.Context, id string) (*models.School, error) {
	if s, ok := m.schools[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSchoolRepo) List(ctx context.Context) ([]models.School, error) {
	var out []models.School
	for _, s := range m.schools {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSchoolRepo) ListClassrooms(ctx context.Context, schoolID string) ([]models.Classroom, error) {
	return m.classrooms, nil
}

func (m *mockSchoolRepo) ListProfiles(ctx context.Context, schoolID string) ([]models.ProfileSummary, error) {
	return m.profiles, nil
}

func TestCreateSchoolBindsHeadProfile(t *testing.T) {
	repo := &mockSchoolRepo{}
	svc := NewSchoolService(repo, nil, 0, nil, nil)

	school, profile, err := svc.Create(context.Background(), "head-1", CreateSchoolRequest{Name: "Greenwood High"})
	require.NoError(t, err)
	assert.Equal(t, "head-1", repo.headBound)
	require.NotNil(t, profile.SchoolID)
	assert.Equal(t, school.ID, *profile.SchoolID)
}

func TestCreateSchoolRequiresName(t *testing.T) {
	svc := NewSchoolService(&mockSchoolRepo{}, nil, 0, nil, nil)

	_, _, err := svc.Create(context.Background(), "head-1", CreateSchoolRequest{})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestCreateSchoolUnknownProfile(t *testing.T) {
	repo := &mockSchoolRepo{failCreate: sql.ErrNoRows}
	svc := NewSchoolService(repo, nil, 0, nil, nil)

	_, _, err := svc.Create(context.Background(), "ghost", CreateSchoolRequest{Name: "Greenwood High"})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestSchoolDetailBundlesClassroomsAndProfiles(t *testing.T) {
	repo := &mockSchoolRepo{
		schools: map[string]*models.School{
			"school-1": {ID: "school-1", Name: "Greenwood High"},
		},
		classrooms: []models.Classroom{{ID: "class-1", Name: "Grade 5A", SchoolID: "school-1"}},
		profiles:   []models.ProfileSummary{{ID: "stu-1", Name: "Amina", Role: models.RoleStudent}},
	}
	svc := NewSchoolService(repo, nil, 0, nil, nil)

	detail, err := svc.Detail(context.Background(), "school-1")
	require.NoError(t, err)
	assert.Equal(t, "Greenwood High", detail.Name)
	require.Len(t, detail.Classrooms, 1)
	require.Len(t, detail.Profiles, 1)
}

func TestSchoolDetailUnknownSchool(t *testing.T) {
	svc := NewSchoolService(&mockSchoolRepo{}, nil, 0, nil, nil)

	_, err := svc.Detail(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
