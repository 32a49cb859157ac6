package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 4096

type httpProvider struct {
	name        string
	baseURL     string
	orgEnvVar   string
	credentials ports.CredentialSource
	httpClient  *http.Client
	adapter     providerAdapter
}

type providerAdapter struct {
	path          string
	buildRequest  func(ports.ProviderRequest) ([]byte, error)
	parseResponse func([]byte) (string, error)
}

func (p *httpProvider) Name() string {
	return p.name
}

// Generate implements ports.Provider. Every failure is a *domain.TransportError.
func (p *httpProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	fail := func(status int, body string, err error) (ports.ProviderResponse, error) {
		return ports.ProviderResponse{}, &domain.TransportError{
			Model:  req.Model.Model,
			Beta:   req.Model.Beta,
			Status: status,
			Body:   body,
			Err:    err,
		}
	}

	apiKey, err := p.credentials.APIKey()
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	// Read after APIKey, which may have loaded the variable from the env file.
	orgID := resolveOrg(p.orgEnvVar, domain.DefaultOrgEnv)

	requestBody, err := p.adapter.buildRequest(req)
	if err != nil {
		return fail(0, "", fmt.Errorf("encode request: %w", err))
	}

	endpoint := strings.TrimRight(p.baseURL, "/") + p.adapter.path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return fail(0, "", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("authorization", "Bearer "+apiKey)
	if orgID != "" {
		httpReq.Header.Set("OpenAI-Organization", orgID)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fail(0, "", err)
	}
	defer resp.Body.Close()

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(io.LimitReader(resp.Body, 16<<20)); err != nil {
		return fail(resp.StatusCode, "", err)
	}

	if resp.StatusCode >= 400 {
		body := responseBody.String()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return fail(resp.StatusCode, body, errors.New(describeAPIError(resp.Status, responseBody.Bytes())))
	}

	text, err := p.adapter.parseResponse(responseBody.Bytes())
	if err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	if text == "" {
		text = domain.NoResponseReply
	}
	return ports.ProviderResponse{Text: text, Payload: requestBody}, nil
}

func chatAdapter() providerAdapter {
	return providerAdapter{
		path:          "/chat/completions",
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
	}
}

func completionAdapter() providerAdapter {
	return providerAdapter{
		path:          "/completions",
		buildRequest:  buildCompletionRequest,
		parseResponse: parseCompletionResponse,
	}
}

func buildChatCompletionRequest(req ports.ProviderRequest) ([]byte, error) {
	return json.Marshal(chatCompletionRequest{
		Model:       req.Model.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      false,
	})
}

func parseChatCompletionResponse(body []byte) (string, error) {
	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	return response.FirstMessage(), nil
}

func buildCompletionRequest(req ports.ProviderRequest) ([]byte, error) {
	return json.Marshal(completionRequest{
		Model:       req.Model.Model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}

func parseCompletionResponse(body []byte) (string, error) {
	var response completionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	return response.FirstText(), nil
}

func describeAPIError(status string, body []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Sprintf("%s: %s", status, apiErr.Error.Message)
	}
	return status
}
