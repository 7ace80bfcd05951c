package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Infer talks to the HiveCore inference API (client token). Model actions use
// the raw NDJSON endpoints; console prompts go through the gateway's
// OpenAI-compatible surface.
type Infer struct {
	http   *HTTPClient
	openai *openai.Client
}

// NewInfer creates an inference client for the given base URL.
func NewInfer(baseURL, clientToken string) *Infer {
	clientConfig := openai.DefaultConfig(clientToken)
	clientConfig.BaseURL = baseURL + "/v1"

	return &Infer{
		http:   NewHTTPClient(baseURL, clientToken),
		openai: openai.NewClientWithConfig(clientConfig),
	}
}

func nodeHeader(node string) map[string]string {
	if node == "" {
		return nil
	}
	return map[string]string{"Node": node}
}

// PullModel starts pulling a model onto a worker. The returned body is an
// NDJSON progress stream bound to ctx; cancelling ctx aborts it.
func (i *Infer) PullModel(ctx context.Context, model, node string) (io.ReadCloser, error) {
	body := map[string]string{"name": model}
	return i.http.Stream(ctx, http.MethodPost, "api/pull", body, nodeHeader(node))
}

// DeleteModel removes a model from a worker. The returned body is an NDJSON
// progress stream bound to ctx.
func (i *Infer) DeleteModel(ctx context.Context, model, node string) (io.ReadCloser, error) {
	body := map[string]string{"name": model}
	return i.http.Stream(ctx, http.MethodDelete, "api/delete", body, nodeHeader(node))
}

// ListModels lists the models available on a worker.
func (i *Infer) ListModels(ctx context.Context, node string) ([]string, error) {
	resp, err := i.http.do(ctx, http.MethodGet, "api/models", nil, nodeHeader(node))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out []string
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Generate sends a console prompt through the gateway's OpenAI-compatible
// chat endpoint and returns the completion text.
func (i *Infer) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := i.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("inference returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
