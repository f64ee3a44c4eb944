package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizonapply/horizon/internal/platform/httpx"
	"github.com/horizonapply/horizon/internal/shared"
)

type mockRepository struct {
	apps map[string]*Application

	createError error
	getError    error
}

func newMockRepository() *mockRepository {
	return &mockRepository{apps: make(map[string]*Application)}
}

func (m *mockRepository) ListByStudent(_ context.Context, studentID, status string) ([]Application, error) {
	var out []Application
	for _, app := range m.apps {
		if app.StudentID == studentID && (status == "" || app.Status == status) {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(_ context.Context, id string) (*Application, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	app, ok := m.apps[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *app
	return &copied, nil
}

func (m *mockRepository) Create(_ context.Context, app *Application) error {
	if m.createError != nil {
		return m.createError
	}
	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	copied := *app
	m.apps[app.ID] = &copied
	return nil
}

func (m *mockRepository) Update(_ context.Context, app *Application) error {
	if _, ok := m.apps[app.ID]; !ok {
		return shared.ErrNotFound
	}
	copied := *app
	m.apps[app.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.apps[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.apps, id)
	return nil
}

func validCreateInput() CreateInput {
	return CreateInput{
		StudentID:    "st1",
		UniversityID: "uni1",
		Type:         TypeRegularDecision,
		Deadline:     time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateApplication(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	app, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, StatusNotStarted, app.Status)
	assert.Equal(t, "st1", app.StudentID)
	assert.Len(t, repo.apps, 1)
}

func TestCreateApplicationValidation(t *testing.T) {
	service := NewService(newMockRepository())

	in := validCreateInput()
	in.Type = "SOMEDAY_MAYBE"
	_, err := service.Create(context.Background(), in)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	in = validCreateInput()
	in.UniversityID = ""
	_, err = service.Create(context.Background(), in)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateApplicationRepoError(t *testing.T) {
	repo := newMockRepository()
	repo.createError = errors.New("insert failed")
	service := NewService(repo)

	_, err := service.Create(context.Background(), validCreateInput())
	assert.Error(t, err)
}

func TestUpdateApplication(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	app, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	submitted := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	updated, err := service.Update(context.Background(), app, UpdateInput{
		Type:        TypeRegularDecision,
		Status:      StatusSubmitted,
		Deadline:    app.Deadline,
		SubmittedAt: &submitted,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, updated.Status)
	assert.Equal(t, &submitted, updated.SubmittedAt)

	_, err = service.Update(context.Background(), app, UpdateInput{
		Type:     TypeRegularDecision,
		Status:   "LOST_IN_MAIL",
		Deadline: app.Deadline,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListByStudentStatusFilter(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	app, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	_, err = service.Update(context.Background(), app, UpdateInput{
		Type:     app.Type,
		Status:   StatusSubmitted,
		Deadline: app.Deadline,
	})
	require.NoError(t, err)

	in := validCreateInput()
	in.UniversityID = "uni2"
	_, err = service.Create(context.Background(), in)
	require.NoError(t, err)

	all, err := service.ListByStudent(context.Background(), "st1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	submitted, err := service.ListByStudent(context.Background(), "st1", StatusSubmitted)
	require.NoError(t, err)
	assert.Len(t, submitted, 1)

	_, err = service.ListByStudent(context.Background(), "st1", "NOT_A_STATUS")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteApplication(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	app, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), app.ID))
	assert.ErrorIs(t, service.Delete(context.Background(), app.ID), shared.ErrNotFound)
}
