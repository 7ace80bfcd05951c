package models

import "time"

// WorkerVersion reports the gateway and runtime versions of a single worker,
// as returned by /worker/versions.
type WorkerVersion struct {
	Hive   string `json:"hive"`
	Ollama string `json:"ollama"`
}

// WorkerVersions maps worker name to version info.
type WorkerVersions map[string]WorkerVersion

// WorkerStatuses maps worker name to its recent status strings, newest last.
type WorkerStatuses map[string][]string

// WorkerConnections maps worker name to its concurrent connection count.
type WorkerConnections map[string]int

// WorkerPings maps worker name to its recent ping timestamps, newest last.
type WorkerPings map[string][]time.Time

// WorkerTags maps worker name to the model tags it serves.
type WorkerTags map[string][]string

// QueueMap maps a queue name (a model name or a node name) to its depth.
type QueueMap map[string]int

// AuthKey is a single authentication key known to the gateway.
type AuthKey struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Value string `json:"value"`
}

// AuthKeys is the full key listing.
type AuthKeys []AuthKey
