package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPullModelStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/pull", r.URL.Path)
		require.Equal(t, "Bearer client-tok", r.Header.Get("Authorization"))
		require.Equal(t, "worker1", r.Header.Get("Node"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "llama3", body["name"])

		w.Write([]byte("{\"status\":\"pulling manifest\"}\n{\"status\":\"success\"}\n"))
	}))
	defer srv.Close()

	i := NewInfer(srv.URL, "client-tok")
	stream, err := i.PullModel(context.Background(), "llama3", "worker1")
	require.NoError(t, err)
	defer stream.Close()

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.Equal(t, "{\"status\":\"pulling manifest\"}\n{\"status\":\"success\"}\n", string(data))
}

func TestDeleteModelUsesDeleteMethod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/delete", r.URL.Path)
		require.Empty(t, r.Header.Get("Node"), "no header without a target node")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "old-model", body["name"])

		w.Write([]byte("{\"status\":\"deleted\"}\n"))
	}))
	defer srv.Close()

	i := NewInfer(srv.URL, "client-tok")
	stream, err := i.DeleteModel(context.Background(), "old-model", "")
	require.NoError(t, err)
	defer stream.Close()

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.Equal(t, "{\"status\":\"deleted\"}\n", string(data))
}

func TestPullModelAbortsOnContextCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	i := NewInfer(srv.URL, "client-tok")
	_, err := i.PullModel(ctx, "llama3", "")
	require.Error(t, err)
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/models", r.URL.Path)
		json.NewEncoder(w).Encode([]string{"llama3", "zephyr"})
	}))
	defer srv.Close()

	i := NewInfer(srv.URL, "client-tok")
	names, err := i.ListModels(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"llama3", "zephyr"}, names)
}

func TestGenerateThroughChatEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello back"}}]
		}`))
	}))
	defer srv.Close()

	i := NewInfer(srv.URL, "client-tok")
	answer, err := i.Generate(context.Background(), "llama3", "hello")
	require.NoError(t, err)
	require.Equal(t, "hello back", answer)
}
