package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleAuthorizerAdminAllowsEverything(t *testing.T) {
	a := NewRoleAuthorizer()

	for _, verb := range []string{VerbGet, VerbList, VerbCreate, VerbUpdate, VerbGenerate} {
		allowed, err := a.Authorize(context.Background(), Request{
			User: "ops", Roles: []string{RoleAdmin}, Resource: ResourceSchedules, Verb: verb,
		})
		require.NoError(t, err)
		assert.True(t, allowed, "admin denied %s", verb)
	}
}

func TestRoleAuthorizerReadIsReadOnly(t *testing.T) {
	a := NewRoleAuthorizer()

	allowed, err := a.Authorize(context.Background(), Request{
		Roles: []string{RoleRead}, Resource: ResourceTemplates, Verb: VerbList,
	})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = a.Authorize(context.Background(), Request{
		Roles: []string{RoleRead}, Resource: ResourceTemplates, Verb: VerbCreate,
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRoleAuthorizerEditUpdatesTicketsOnly(t *testing.T) {
	a := NewRoleAuthorizer()

	allowed, err := a.Authorize(context.Background(), Request{
		Roles: []string{RoleEdit}, Resource: ResourceTickets, Verb: VerbUpdate,
	})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = a.Authorize(context.Background(), Request{
		Roles: []string{RoleEdit}, Resource: ResourceSchedules, Verb: VerbGenerate,
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRoleAuthorizerNoRolesDenied(t *testing.T) {
	a := NewRoleAuthorizer()

	allowed, err := a.Authorize(context.Background(), Request{
		Resource: ResourceInstances, Verb: VerbList,
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestIdentityMiddlewareParsesHeaders(t *testing.T) {
	var got Identity
	handler := IdentityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserHeader, "alex@example.com")
	req.Header.Set(RolesHeader, "admin, read")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "alex@example.com", got.User)
	assert.Equal(t, []string{"admin", "read"}, got.Roles)
}

func TestRequirePermissionForbidsWithoutRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := IdentityMiddleware(
		RequirePermission(NewRoleAuthorizer(), ResourceSchedules, VerbCreate)(next))

	req := httptest.NewRequest(http.MethodPost, "/schedules", nil)
	req.Header.Set(RolesHeader, "read")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/schedules", nil)
	req.Header.Set(RolesHeader, "admin")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNoopAuthorizerAllows(t *testing.T) {
	allowed, err := NewNoopAuthorizer().Authorize(context.Background(), Request{})
	require.NoError(t, err)
	assert.True(t, allowed)
}
