package applications

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizonapply/horizon/internal/auth"
	"github.com/horizonapply/horizon/internal/rbac"
	"github.com/horizonapply/horizon/internal/shared"
	_ "github.com/horizonapply/horizon/testing"
)

type stubGuardians struct {
	links map[string]bool
}

func (s *stubGuardians) IsGuardianOf(_ context.Context, parentID, studentID string) (bool, error) {
	return s.links[parentID+":"+studentID], nil
}

type stubIdentities struct {
	byID map[string]*auth.Identity
}

func (s *stubIdentities) FindByID(_ context.Context, id string) (*auth.Identity, error) {
	identity, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return identity, nil
}

func (s *stubIdentities) FindByEmail(_ context.Context, _ string) (*auth.Identity, error) {
	return nil, shared.ErrNotFound
}

type fixture struct {
	router http.Handler
	signer *auth.TokenSigner
	repo   *mockRepository
}

func newFixture(t *testing.T, guardians rbac.GuardianChecker) *fixture {
	t.Helper()
	signer := auth.NewTokenSigner("test-secret", time.Hour)
	identities := &stubIdentities{byID: map[string]*auth.Identity{
		"s1": {ID: "s1", Email: "s1@test.local", Role: auth.RoleStudent, LinkedStudentID: "s1", IsActive: true},
		"p1": {ID: "p1", Email: "p1@test.local", Role: auth.RoleParent, IsActive: true},
	}}
	resolver := auth.NewResolver(signer, identities, nil)
	authorizer := rbac.NewAuthorizer(rbac.DefaultCatalog(), guardians, nil)
	enforce := rbac.Middleware{Resolver: resolver, Authorizer: authorizer}

	repo := newMockRepository()
	handler := NewHandler(nil, NewService(repo), authorizer)

	r := chi.NewRouter()
	r.Route("/applications", func(r chi.Router) {
		r.With(enforce.Require("applications", rbac.ActionCreate, nil)).Post("/", handler.HandleCreate)
		r.Route("/{applicationID}", func(r chi.Router) {
			r.Use(enforce.Authenticate)
			r.Get("/", handler.HandleGet)
			r.Delete("/", handler.HandleDelete)
		})
	})

	return &fixture{router: r, signer: signer, repo: repo}
}

func (f *fixture) token(t *testing.T, id string, role auth.Role, linked string) string {
	t.Helper()
	token, err := f.signer.Sign(&auth.Identity{ID: id, Role: role, LinkedStudentID: linked, IsActive: true})
	require.NoError(t, err)
	return token
}

func (f *fixture) seed(id, studentID string) *Application {
	app := &Application{
		ID:           id,
		StudentID:    studentID,
		UniversityID: "uni1",
		Type:         TypeRegularDecision,
		Status:       StatusInProgress,
		Deadline:     time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.repo.apps[app.ID] = app
	return app
}

func TestStudentCreatesOwnApplication(t *testing.T) {
	f := newFixture(t, &stubGuardians{})
	body := `{"universityId":"22222222-2222-4222-8222-222222222222","applicationType":"EARLY_ACTION","deadline":"2026-11-01T00:00:00Z"}`

	req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+f.token(t, "s1", auth.RoleStudent, "s1"))
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	require.Len(t, f.repo.apps, 1)
	for _, app := range f.repo.apps {
		assert.Equal(t, "s1", app.StudentID, "owner comes from the principal, not the payload")
	}
}

func TestStudentCannotTouchAnotherStudentsApplication(t *testing.T) {
	f := newFixture(t, &stubGuardians{})
	app := f.seed("11111111-1111-4111-8111-111111111111", "s2")

	req := httptest.NewRequest(http.MethodDelete, "/applications/"+app.ID, nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, "s1", auth.RoleStudent, "s1"))
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Len(t, f.repo.apps, 1, "target must be untouched")
}

func TestStudentDeletesOwnApplication(t *testing.T) {
	f := newFixture(t, &stubGuardians{})
	app := f.seed("11111111-1111-4111-8111-111111111111", "s1")

	req := httptest.NewRequest(http.MethodDelete, "/applications/"+app.ID, nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, "s1", auth.RoleStudent, "s1"))
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Empty(t, f.repo.apps)
}

func TestParentReadsChildApplication(t *testing.T) {
	f := newFixture(t, &stubGuardians{links: map[string]bool{"p1:s9": true}})
	app := f.seed("11111111-1111-4111-8111-111111111111", "s9")

	req := httptest.NewRequest(http.MethodGet, "/applications/"+app.ID, nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, "p1", auth.RoleParent, ""))
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)

	// Not this parent's child: same route, deny.
	other := f.seed("33333333-3333-4333-8333-333333333333", "s2")
	req = httptest.NewRequest(http.MethodGet, "/applications/"+other.ID, nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, "p1", auth.RoleParent, ""))
	res = httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestUnauthenticatedItemRoute(t *testing.T) {
	f := newFixture(t, &stubGuardians{})
	app := f.seed("11111111-1111-4111-8111-111111111111", "s1")

	req := httptest.NewRequest(http.MethodGet, "/applications/"+app.ID, nil)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
