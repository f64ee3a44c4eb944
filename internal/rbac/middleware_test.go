package rbac

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizonapply/horizon/internal/auth"
	"github.com/horizonapply/horizon/internal/shared"
)

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

func newTestMiddleware(t *testing.T, guardians GuardianChecker) (Middleware, *auth.TokenSigner) {
	t.Helper()
	signer := auth.NewTokenSigner("test-secret", time.Hour)
	identities := &stubIdentities{byID: map[string]*auth.Identity{
		"s1": {ID: "s1", Email: "s1@test.local", Role: auth.RoleStudent, LinkedStudentID: "s1", IsActive: true},
		"p1": {ID: "p1", Email: "p1@test.local", Role: auth.RoleParent, IsActive: true},
	}}
	resolver := auth.NewResolver(signer, identities, nil)
	if guardians == nil {
		guardians = &stubGuardians{}
	}
	mw := Middleware{
		Resolver:   resolver,
		Authorizer: NewAuthorizer(DefaultCatalog(), guardians, nil),
		CookieName: "horizon_token",
	}
	return mw, signer
}

func signFor(t *testing.T, signer *auth.TokenSigner, identity *auth.Identity) string {
	t.Helper()
	token, err := signer.Sign(identity)
	require.NoError(t, err)
	return token
}

func denyBody(t *testing.T, res *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body["error"]
}

func TestRequireMissingCredential(t *testing.T) {
	mw, _ := newTestMiddleware(t, nil)
	invoked := false
	handler := mw.Require("applications", ActionCreate, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		invoked = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/applications", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Unauthorized", denyBody(t, res))
	assert.False(t, invoked, "handler must never run on deny")
}

func TestRequireMalformedToken(t *testing.T) {
	mw, _ := newTestMiddleware(t, nil)
	handler := mw.Require("applications", ActionCreate, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/applications", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Unauthorized", denyBody(t, res))
}

func TestRequireExpiredToken(t *testing.T) {
	mw, _ := newTestMiddleware(t, nil)
	expiredSigner := auth.NewTokenSigner("test-secret", -time.Minute)
	token := signFor(t, expiredSigner, &auth.Identity{ID: "s1", Role: auth.RoleStudent})

	handler := mw.Require("applications", ActionCreate, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodPost, "/applications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireUnknownIdentity(t *testing.T) {
	mw, signer := newTestMiddleware(t, nil)
	token := signFor(t, signer, &auth.Identity{ID: "ghost", Role: auth.RoleStudent})

	handler := mw.Require("applications", ActionCreate, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodPost, "/applications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireNoRuleForbidden(t *testing.T) {
	mw, signer := newTestMiddleware(t, nil)
	token := signFor(t, signer, &auth.Identity{ID: "s1", Role: auth.RoleStudent, LinkedStudentID: "s1", IsActive: true})

	invoked := false
	handler := mw.Require("parentNotes", ActionCreate, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		invoked = true
	}))
	req := httptest.NewRequest(http.MethodPost, "/parent/notes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Forbidden", denyBody(t, res))
	assert.False(t, invoked)
}

func TestRequireAllowedAttachesPrincipal(t *testing.T) {
	mw, signer := newTestMiddleware(t, nil)
	token := signFor(t, signer, &auth.Identity{ID: "s1", Role: auth.RoleStudent, LinkedStudentID: "s1", IsActive: true})

	var seen *auth.Principal
	handler := mw.Require("applications", ActionCreate, nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = auth.PrincipalFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/applications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "s1", seen.ID)
	assert.Equal(t, auth.RoleStudent, seen.Role)
}

func TestRequireCookieFallback(t *testing.T) {
	mw, signer := newTestMiddleware(t, nil)
	token := signFor(t, signer, &auth.Identity{ID: "s1", Role: auth.RoleStudent, LinkedStudentID: "s1", IsActive: true})

	handler := mw.Require("applications", ActionCreate, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodPost, "/applications", nil)
	req.AddCookie(&http.Cookie{Name: "horizon_token", Value: token})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireConditionalFromQuery(t *testing.T) {
	guardians := &stubGuardians{links: map[string]bool{"p1:s9": true}}
	mw, signer := newTestMiddleware(t, guardians)
	token := signFor(t, signer, &auth.Identity{ID: "p1", Role: auth.RoleParent, IsActive: true})

	handler := mw.Require("applications", ActionRead,
		QueryContext("studentId", "studentId"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/applications?studentId=s9", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/applications?studentId=s2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)

	// No query parameter at all: the condition has nothing to hold against.
	req = httptest.NewRequest(http.MethodGet, "/applications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestAuthenticateOnly(t *testing.T) {
	mw, signer := newTestMiddleware(t, nil)
	token := signFor(t, signer, &auth.Identity{ID: "p1", Role: auth.RoleParent, IsActive: true})

	var seen *auth.Principal
	handler := mw.Authenticate(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = auth.PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/parent/notes/n1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Nil(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/parent/notes/n1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "p1", seen.ID)
}
