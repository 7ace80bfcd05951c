package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hivecore/hivemon/internal/models"
)

// Manage talks to the HiveCore management API (admin token).
type Manage struct {
	http *HTTPClient
}

// NewManage creates a management client for the given base URL.
func NewManage(baseURL, adminToken string) *Manage {
	return &Manage{http: NewHTTPClient(baseURL, adminToken)}
}

// Queue fetches all queue depths (model- and node-based).
func (m *Manage) Queue(ctx context.Context) (models.QueueMap, error) {
	var out models.QueueMap
	if err := m.http.GetJSON(ctx, "queue", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WorkerStatuses fetches recent status strings per worker.
func (m *Manage) WorkerStatuses(ctx context.Context) (models.WorkerStatuses, error) {
	var out models.WorkerStatuses
	if err := m.http.GetJSON(ctx, "worker/status", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WorkerConnections fetches concurrent connection counts per worker.
func (m *Manage) WorkerConnections(ctx context.Context) (models.WorkerConnections, error) {
	var out models.WorkerConnections
	if err := m.http.GetJSON(ctx, "worker/connections", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WorkerPings fetches last ping timestamps per worker. Entries that are not
// arrays of RFC3339 strings degrade to empty rather than failing the fetch.
func (m *Manage) WorkerPings(ctx context.Context) (models.WorkerPings, error) {
	var raw map[string]json.RawMessage
	if err := m.http.GetJSON(ctx, "worker/pings", &raw); err != nil {
		return nil, err
	}
	return parseWorkerPings(raw), nil
}

// WorkerVersions fetches gateway and runtime versions per worker.
func (m *Manage) WorkerVersions(ctx context.Context) (models.WorkerVersions, error) {
	var out models.WorkerVersions
	if err := m.http.GetJSON(ctx, "worker/versions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WorkerTags fetches the model tags served per worker.
func (m *Manage) WorkerTags(ctx context.Context) (models.WorkerTags, error) {
	var out models.WorkerTags
	if err := m.http.GetJSON(ctx, "worker/tags", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Keys lists all authentication keys. A payload that is not an array (some
// gateway versions return a bare count) coerces to an empty list.
func (m *Manage) Keys(ctx context.Context) (models.AuthKeys, error) {
	var raw json.RawMessage
	if err := m.http.GetJSON(ctx, "key", &raw); err != nil {
		return nil, err
	}
	return parseAuthKeys(raw), nil
}

// CreateKey registers a new authentication key and returns the updated list.
func (m *Manage) CreateKey(ctx context.Context, name, role string) (models.AuthKeys, error) {
	body := map[string]string{"name": name, "role": role}
	var raw json.RawMessage
	if err := m.http.PostJSON(ctx, "key", body, &raw); err != nil {
		return nil, err
	}
	return parseAuthKeys(raw), nil
}

func parseWorkerPings(raw map[string]json.RawMessage) models.WorkerPings {
	out := make(models.WorkerPings, len(raw))
	for name, v := range raw {
		var stamps []string
		if err := json.Unmarshal(v, &stamps); err != nil {
			out[name] = nil
			continue
		}
		var times []time.Time
		for _, s := range stamps {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				times = append(times, t.UTC())
			}
		}
		out[name] = times
	}
	return out
}

func parseAuthKeys(raw json.RawMessage) models.AuthKeys {
	var keys models.AuthKeys
	if err := json.Unmarshal(raw, &keys); err != nil {
		return models.AuthKeys{}
	}
	return keys
}
