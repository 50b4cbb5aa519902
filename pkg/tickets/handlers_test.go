package tickets

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenFNash/boom-power/pkg/authz"
)

func setupTicketAPI(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore(setupTestDB(t))
	srv := httptest.NewServer(authz.IdentityMiddleware(Router(store, nil, authz.NewRoleAuthorizer())))
	t.Cleanup(srv.Close)
	return srv, store
}

func ticketRequest(t *testing.T, method, url string, body any, roles string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set(authz.UserHeader, "alice")
	req.Header.Set(authz.RolesHeader, roles)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestTicketListAndGet(t *testing.T) {
	srv, store := setupTicketAPI(t)

	created, err := store.Create(&Ticket{Type: TypeJob, Subject: "Boiler inspection", SiteID: "s1"})
	require.NoError(t, err)
	_, err = store.Create(&Ticket{Type: TypeFault, Subject: "Leaking roof", SiteID: "s2"})
	require.NoError(t, err)

	resp := ticketRequest(t, http.MethodGet, srv.URL+"/?type=job", nil, authz.RoleRead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list map[string][]ticketResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list["tickets"], 1)
	assert.Equal(t, "Boiler inspection", list["tickets"][0].Subject)

	resp = ticketRequest(t, http.MethodGet, srv.URL+"/"+created.ID, nil, authz.RoleRead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got ticketResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, created.TicketNumber, got.TicketNumber)

	resp = ticketRequest(t, http.MethodGet, srv.URL+"/missing", nil, authz.RoleRead)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTicketStatusUpdate(t *testing.T) {
	srv, store := setupTicketAPI(t)

	created, err := store.Create(&Ticket{Type: TypeJob, Subject: "Boiler inspection"})
	require.NoError(t, err)

	resp := ticketRequest(t, http.MethodPatch, srv.URL+"/"+created.ID+"/status",
		map[string]string{"status": "resolved"}, authz.RoleEdit)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got ticketResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "resolved", got.Status)

	resp = ticketRequest(t, http.MethodPatch, srv.URL+"/"+created.ID+"/status",
		map[string]string{"status": "bogus"}, authz.RoleEdit)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ticketRequest(t, http.MethodPatch, srv.URL+"/missing/status",
		map[string]string{"status": "closed"}, authz.RoleEdit)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Readers cannot change status.
	resp = ticketRequest(t, http.MethodPatch, srv.URL+"/"+created.ID+"/status",
		map[string]string{"status": "closed"}, authz.RoleRead)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
