package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hivecore/hivemon/internal/models"
)

func TestManageAttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer admin-tok", r.Header.Get("Authorization"))
		require.Equal(t, "/worker/status", r.URL.Path)
		json.NewEncoder(w).Encode(models.WorkerStatuses{"alpha": {"Ok"}})
	}))
	defer srv.Close()

	m := NewManage(srv.URL, "admin-tok")
	statuses, err := m.WorkerStatuses(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.WorkerStatuses{"alpha": {"Ok"}}, statuses)
}

func TestQueueAndConnections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/queue":
			json.NewEncoder(w).Encode(models.QueueMap{"llama3": 2})
		case "/worker/connections":
			json.NewEncoder(w).Encode(models.WorkerConnections{"alpha": 3})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := NewManage(srv.URL, "t")
	q, err := m.Queue(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.QueueMap{"llama3": 2}, q)

	conns, err := m.WorkerConnections(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.WorkerConnections{"alpha": 3}, conns)
}

func TestWorkerPingsTolerantParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"good":   ["2026-08-01T10:00:00Z", "not a time", "2026-08-01T10:00:05Z"],
			"broken": {"unexpected": "shape"}
		}`))
	}))
	defer srv.Close()

	m := NewManage(srv.URL, "t")
	pings, err := m.WorkerPings(context.Background())
	require.NoError(t, err)

	require.Len(t, pings["good"], 2, "unparseable stamps are skipped")
	require.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), pings["good"][0])
	require.Nil(t, pings["broken"], "a malformed entry degrades to empty")
}

func TestKeysCoercesNonArrayPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`5`))
	}))
	defer srv.Close()

	m := NewManage(srv.URL, "t")
	keys, err := m.Keys(context.Background())
	require.NoError(t, err)
	require.NotNil(t, keys)
	require.Empty(t, keys)
}

func TestCreateKeyPostsNameAndRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]string{"name": "ci", "role": "client"}, body)
		json.NewEncoder(w).Encode(models.AuthKeys{{ID: "k1", Name: "ci", Role: "client", Value: "tok"}})
	}))
	defer srv.Close()

	m := NewManage(srv.URL, "t")
	keys, err := m.CreateKey(context.Background(), "ci", "client")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, "ci", keys[0].Name)
}

func TestNon2xxStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	m := NewManage(srv.URL, "bad-token")
	_, err := m.WorkerStatuses(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}
