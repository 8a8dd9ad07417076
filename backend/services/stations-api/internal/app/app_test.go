package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appconfig "evcharging/backend/services/stations-api/internal/config"
)

func newTestApp(t *testing.T, seed bool) *httptest.Server {
	t.Helper()
	cfg := appconfig.Default()
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = filepath.Join(t.TempDir(), "api.db")
	cfg.JWT.Secret = "test-secret"
	cfg.Seed.Enabled = seed
	cfg.BcryptCost = bcrypt.MinCost
	require.NoError(t, cfg.Validate())

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		if len(raw) > 0 && raw[0] == '{' {
			require.NoError(t, json.Unmarshal(raw, &out))
		} else {
			out = map[string]any{"items": decodeList(t, raw)}
		}
	}
	return resp, out
}

func decodeList(t *testing.T, raw json.RawMessage) []any {
	t.Helper()
	var list []any
	require.NoError(t, json.Unmarshal(raw, &list))
	return list
}

func register(t *testing.T, srv *httptest.Server, username, email string) string {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["token"].(string)
}

func depotA() map[string]any {
	return map[string]any{
		"name":          "Depot A",
		"latitude":      12.9,
		"longitude":     77.6,
		"status":        "Active",
		"powerOutput":   50,
		"connectorType": "CCS",
	}
}

func TestAPI_CreateThenGet(t *testing.T) {
	srv := newTestApp(t, false)
	token := register(t, srv, "alice", "alice@example.com")

	resp, created := do(t, srv, http.MethodPost, "/api/stations", token, depotA())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Depot A", created["name"])
	assert.Equal(t, 12.9, created["latitude"])
	assert.Equal(t, 77.6, created["longitude"])
	assert.Equal(t, "Active", created["status"])
	assert.EqualValues(t, 50, created["power_output"])
	assert.Equal(t, "CCS", created["connector_type"])
	assert.NotEmpty(t, created["created_at"])
	assert.NotContains(t, created, "created_by")
	id := created["id"].(float64)
	assert.NotZero(t, id)

	resp, got := do(t, srv, http.MethodGet, "/api/stations/"+jsonID(id), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, got)
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	srv := newTestApp(t, false)

	resp, body := do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "bob", body["username"])
	assert.Equal(t, "bob@example.com", body["email"])
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, body, "password")

	resp, body = do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob2", "email": "bob@example.com", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", body["message"])

	resp, body = do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "All fields are required", body["message"])

	resp, body = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bob", body["username"])
	assert.NotEmpty(t, body["token"])

	for _, creds := range []map[string]string{
		{"email": "bob@example.com", "password": "wrong"},
		{"email": "ghost@example.com", "password": "pw"},
	} {
		resp, body = do(t, srv, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, map[string]any{"message": "Invalid credentials"}, body)
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_WritesRequireToken(t *testing.T) {
	srv := newTestApp(t, true)

	for _, tc := range []struct {
		method, path, token string
	}{
		{http.MethodPost, "/api/stations", ""},
		{http.MethodPut, "/api/stations/1", ""},
		{http.MethodDelete, "/api/stations/1", ""},
		{http.MethodDelete, "/api/stations/1", "garbage"},
	} {
		resp, body := do(t, srv, tc.method, tc.path, tc.token, depotA())
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.method+" "+tc.path)
		assert.Equal(t, "Unauthorized", body["message"])
	}

	resp, body := do(t, srv, http.MethodGet, "/api/stations", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 3)
}

func TestAPI_SeededAdminCanLogin(t *testing.T) {
	srv := newTestApp(t, true)

	resp, body := do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", body["username"])
}

func TestAPI_ValidationAndFilters(t *testing.T) {
	srv := newTestApp(t, true)
	token := register(t, srv, "carol", "carol@example.com")

	missing := depotA()
	delete(missing, "connectorType")
	resp, body := do(t, srv, http.MethodPost, "/api/stations", token, missing)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "All fields are required", body["message"])

	bad := depotA()
	bad["status"] = "Broken"
	resp, body = do(t, srv, http.MethodPost, "/api/stations", token, bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid station data", body["message"])

	equator := depotA()
	equator["latitude"] = 0
	equator["longitude"] = 0
	resp, _ = do(t, srv, http.MethodPost, "/api/stations", token, equator)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	_, all := do(t, srv, http.MethodGet, "/api/stations", "", nil)
	items := all["items"].([]any)
	require.Len(t, items, 4)

	_, filtered := do(t, srv, http.MethodGet, "/api/stations?status=Active&minPower=60", "", nil)
	subset := filtered["items"].([]any)
	require.Len(t, subset, 1)
	station := subset[0].(map[string]any)
	assert.Equal(t, "Mall Charging Point", station["name"])
	assert.Contains(t, items, subset[0])

	resp, _ = do(t, srv, http.MethodGet, "/api/stations?maxPower=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, none := do(t, srv, http.MethodGet, "/api/stations?status=active", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, none["items"])

	long := depotA()
	long["name"] = strings.Repeat("n", 256)
	resp, body = do(t, srv, http.MethodPost, "/api/stations", token, long)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid station data", body["message"])
}

func TestAPI_RegisterRejectsOverlongPassword(t *testing.T) {
	srv := newTestApp(t, false)

	resp, body := do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "erin", "email": "erin@example.com", "password": strings.Repeat("p", 80),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid user data", body["message"])

	resp, body = do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "erin", "email": "erin@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "All fields are required", body["message"])

	register(t, srv, "erin", "erin@example.com")
}

func TestAPI_UpdateAndDelete(t *testing.T) {
	srv := newTestApp(t, true)
	token := register(t, srv, "dave", "dave@example.com")

	edit := depotA()
	edit["name"] = "Downtown Charger v2"
	edit["status"] = "Inactive"
	resp, body := do(t, srv, http.MethodPut, "/api/stations/1", token, edit)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Downtown Charger v2", body["name"])
	assert.Equal(t, "Inactive", body["status"])

	resp, body = do(t, srv, http.MethodPut, "/api/stations/999", token, edit)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Charging station not found", body["message"])

	resp, body = do(t, srv, http.MethodDelete, "/api/stations/999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Charging station not found", body["message"])
	_, all := do(t, srv, http.MethodGet, "/api/stations", "", nil)
	assert.Len(t, all["items"], 3)

	resp, body = do(t, srv, http.MethodDelete, "/api/stations/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Charging station deleted successfully", body["message"])

	resp, _ = do(t, srv, http.MethodGet, "/api/stations/1", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/api/stations/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_HealthMetricsAndEvents(t *testing.T) {
	srv := newTestApp(t, false)

	resp, body := do(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stations/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	token := register(t, srv, "erin", "erin@example.com")

	require.Eventually(t, func() bool {
		return strings.Contains(scrape(t, srv), "evcharging_events_subscribers 1")
	}, 3*time.Second, 20*time.Millisecond)

	resp, _ = do(t, srv, http.MethodPost, "/api/stations", token, depotA())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event map[string]any
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "created", event["type"])
	assert.Equal(t, "Depot A", event["station"].(map[string]any)["name"])

	text := scrape(t, srv)
	assert.Contains(t, text, `evcharging_http_requests_total{method="GET",route="GET /health",status="200"} 1`)
	assert.Contains(t, text, `evcharging_http_requests_total{method="POST",route="POST /api/stations",status="201"} 1`)
}

func scrape(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return buf.String()
}

func jsonID(id float64) string {
	return strconv.FormatInt(int64(id), 10)
}
