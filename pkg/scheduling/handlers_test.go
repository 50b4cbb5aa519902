package scheduling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenFNash/boom-power/pkg/audit"
	"github.com/BenFNash/boom-power/pkg/authz"
)

func setupAPI(t *testing.T) (*httptest.Server, *engineEnv) {
	t.Helper()
	env := setupEngine(t)

	auditStore := audit.NewStore(env.db)
	require.NoError(t, auditStore.AutoMigrate())
	recorder := audit.NewRecorder(auditStore, audit.DefaultConfig(), nil)

	router := Router(env.templates, env.schedules, env.instances, env.engine, recorder, nil, authz.NewRoleAuthorizer())
	srv := httptest.NewServer(authz.IdentityMiddleware(router))
	t.Cleanup(srv.Close)
	return srv, env
}

func doJSON(t *testing.T, method, url string, body any, roles string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authz.UserHeader, "alice")
	req.Header.Set(authz.RolesHeader, roles)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestTemplateEndpoints(t *testing.T) {
	srv, env := setupAPI(t)

	create := map[string]any{
		"name":                  "Fire alarm service",
		"siteId":                env.fx.site.ID,
		"assignedCompanyId":     env.fx.vendor.ID,
		"assignedContactId":     env.fx.contact.ID,
		"subjectTitle":          "Fire alarm service visit",
		"estimatedDurationDays": 7,
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/templates", create, authz.RoleAdmin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[templateResponse](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.CreatedBy)
	assert.Equal(t, env.fx.owner.ID, created.SiteOwnerCompanyID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/templates", nil, authz.RoleRead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[map[string][]templateResponse](t, resp)
	require.Len(t, list["templates"], 1)
	assert.Equal(t, "Harbour House", list["templates"][0].SiteName)

	patch := map[string]any{"priority": "high"}
	resp = doJSON(t, http.MethodPatch, srv.URL+"/templates/"+created.ID, patch, authz.RoleAdmin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[templateResponse](t, resp)
	assert.Equal(t, "high", updated.Priority)

	resp = doJSON(t, http.MethodPatch, srv.URL+"/templates/missing", patch, authz.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	bad := map[string]any{"name": "no subject", "siteId": env.fx.site.ID}
	resp = doJSON(t, http.MethodPost, srv.URL+"/templates", bad, authz.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScheduleEndpoints(t *testing.T) {
	srv, env := setupAPI(t)

	tmpl, err := env.templates.Create(validTemplate(env.fx))
	require.NoError(t, err)

	create := map[string]any{
		"jobTemplateId":     tmpl.ID,
		"name":              "Monthly inspection",
		"frequencyType":     "monthly",
		"startDate":         "2025-01-01",
		"advanceNoticeDays": 7,
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/schedules", create, authz.RoleAdmin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[scheduleResponse](t, resp)
	assert.Equal(t, "2025-01-31", created.NextDueDate)
	assert.Empty(t, created.EndDate)

	patch := map[string]any{"endDate": "2025-12-31"}
	resp = doJSON(t, http.MethodPatch, srv.URL+"/schedules/"+created.ID, patch, authz.RoleAdmin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[scheduleResponse](t, resp)
	assert.Equal(t, "2025-12-31", updated.EndDate)

	// An explicit empty end date clears it.
	patch = map[string]any{"endDate": ""}
	resp = doJSON(t, http.MethodPatch, srv.URL+"/schedules/"+created.ID, patch, authz.RoleAdmin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated = decode[scheduleResponse](t, resp)
	assert.Empty(t, updated.EndDate)

	resp = doJSON(t, http.MethodGet, srv.URL+"/schedules", nil, authz.RoleRead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[map[string][]scheduleResponse](t, resp)
	require.Len(t, list["schedules"], 1)
	assert.Equal(t, tmpl.Name, list["schedules"][0].TemplateName)

	bad := map[string]any{
		"jobTemplateId": tmpl.ID,
		"name":          "Bad date",
		"frequencyType": "monthly",
		"startDate":     "01/02/2025",
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/schedules", bad, authz.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateEndpoint(t *testing.T) {
	srv, env := setupAPI(t)

	tmpl, err := env.templates.Create(validTemplate(env.fx))
	require.NoError(t, err)
	_, err = env.schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2025, 1, 1),
		NextDueDate:   date(2025, 1, 1),
		Active:        true,
	})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, srv.URL+"/schedules:generate?asOf=2025-01-01", nil, authz.RoleAdmin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[map[string]int](t, resp)
	assert.Equal(t, 1, result["created"])

	// Idempotent on repeat.
	resp = doJSON(t, http.MethodPost, srv.URL+"/schedules:generate?asOf=2025-01-01", nil, authz.RoleAdmin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result = decode[map[string]int](t, resp)
	assert.Zero(t, result["created"])

	resp = doJSON(t, http.MethodGet, srv.URL+"/instances", nil, authz.RoleRead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	instances := decode[map[string][]instanceResponse](t, resp)
	require.Len(t, instances["instances"], 1)
	assert.Equal(t, "2025-01-01", instances["instances"][0].DueDate)
	assert.Equal(t, "Monthly inspection", instances["instances"][0].Schedule.Name)

	resp = doJSON(t, http.MethodPost, srv.URL+"/schedules:generate?asOf=bogus", nil, authz.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEndpointsEnforcePermissions(t *testing.T) {
	srv, env := setupAPI(t)

	create := map[string]any{
		"name":         fmt.Sprintf("t-%d", 1),
		"siteId":       env.fx.site.ID,
		"subjectTitle": "x",
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/templates", create, authz.RoleRead)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/schedules:generate", nil, authz.RoleEdit)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/templates", nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
