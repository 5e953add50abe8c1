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

type mockClassroomRepo struct {
	classrooms map[string]*models.Classroom
	teachers   map[string]*models.ProfileSummary
	created    *models.Classroom
}

func (m *mockClassroomRepo) Create(ctx context.Context, classroom *models.Classroom) error {
	classroom.ID = "class-new"
	m.created = classroom
	return nil
}

func (m *mockClassroomRepo) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	if c, ok := m.classrooms[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassroomRepo) FindTeacher(ctx context.Context, teacherID string) (*models.ProfileSummary, error) {
	if t, ok := m.teachers[teacherID]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

type mockRoster struct {
	students []models.ProfileSummary
}

func (m *mockRoster) RosterByClassroom(ctx context.Context, classroomID string) ([]models.ProfileSummary, error) {
	return m.students, nil
}

func headProfile(schoolID string) *models.Profile {
	return &models.Profile{ID: "head-1", Role: models.RoleHead, SchoolID: &schoolID}
}

func TestCreateClassroomHeadOnly(t *testing.T) {
	repo := &mockClassroomRepo{}
	svc := NewClassroomService(repo, &mockRoster{}, nil, 0, nil, nil)

	schoolID := "school-1"
	teacher := &models.Profile{ID: "teach-1", Role: models.RoleTeacher, SchoolID: &schoolID}
	_, err := svc.Create(context.Background(), teacher, CreateClassroomRequest{Name: "Grade 5A"})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestCreateClassroomUsesCallerSchool(t *testing.T) {
	repo := &mockClassroomRepo{}
	svc := NewClassroomService(repo, &mockRoster{}, nil, 0, nil, nil)

	classroom, err := svc.Create(context.Background(), headProfile("school-1"), CreateClassroomRequest{Name: "Grade 5A"})
	require.NoError(t, err)
	assert.Equal(t, "school-1", classroom.SchoolID)
	assert.Equal(t, "Grade 5A", classroom.Name)
}

func TestCreateClassroomRequiresSchoolAttachment(t *testing.T) {
	svc := NewClassroomService(&mockClassroomRepo{}, &mockRoster{}, nil, 0, nil, nil)

	head := &models.Profile{ID: "head-1", Role: models.RoleHead}
	_, err := svc.Create(context.Background(), head, CreateClassroomRequest{Name: "Grade 5A"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestClassroomDetailIncludesTeacherAndRoster(t *testing.T) {
	teacherID := "teach-1"
	repo := &mockClassroomRepo{
		classrooms: map[string]*models.Classroom{
			"class-1": {ID: "class-1", Name: "Grade 5A", SchoolID: "school-1", TeacherID: &teacherID},
		},
		teachers: map[string]*models.ProfileSummary{
			"teach-1": {ID: "teach-1", Name: "Mr. Khan", Role: models.RoleTeacher},
		},
	}
	roster := &mockRoster{students: []models.ProfileSummary{{ID: "stu-1", Name: "Amina", Role: models.RoleStudent}}}
	svc := NewClassroomService(repo, roster, nil, 0, nil, nil)

	detail, err := svc.Detail(context.Background(), "class-1")
	require.NoError(t, err)
	require.NotNil(t, detail.Teacher)
	assert.Equal(t, "Mr. Khan", detail.Teacher.Name)
	require.Len(t, detail.Roster, 1)
	assert.Equal(t, "Amina", detail.Roster[0].Profile.Name)
}

func TestClassroomDetailUnknownClassroom(t *testing.T) {
	svc := NewClassroomService(&mockClassroomRepo{}, &mockRoster{}, nil, 0, nil, nil)

	_, err := svc.Detail(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
