package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/infrastructure/credentials"
	"github.com/doeshing/sllm/internal/ports"
)

type staticKey struct {
	key string
	err error
}

func (s staticKey) APIKey() (string, error) {
	return s.key, s.err
}

type capturedRequest struct {
	path    string
	headers http.Header
	body    map[string]interface{}
}

func newServer(t *testing.T, status int, response string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if captured != nil {
			captured.path = r.URL.Path
			captured.headers = r.Header.Clone()
			_ = json.Unmarshal(raw, &captured.body)
		}
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func providerFor(t *testing.T, srv *httptest.Server, model domain.ModelDescriptor) ports.Provider {
	t.Helper()
	factory := NewFactory(srv.URL, staticKey{key: "sk-test"}, "").WithHTTPClient(srv.Client())
	p, err := factory.ForModel(model)
	require.NoError(t, err)
	return p
}

func TestChatRequestShape(t *testing.T) {
	var got capturedRequest
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"  hi there \n"}}]}`, &got)
	model := domain.ModelDescriptor{Model: "gpt-3.5-turbo", API: domain.APIChat, MaxTokens: 4096}

	resp, err := providerFor(t, srv, model).Generate(context.Background(), ports.ProviderRequest{
		Prompt: "hello", Model: model, MaxTokens: 256, Temperature: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Text)
	assert.NotEmpty(t, resp.Payload)

	assert.Equal(t, "/chat/completions", got.path)
	assert.Equal(t, "Bearer sk-test", got.headers.Get("Authorization"))
	assert.Equal(t, "application/json", got.headers.Get("Content-Type"))
	assert.Equal(t, "gpt-3.5-turbo", got.body["model"])
	assert.Equal(t, float64(256), got.body["max_tokens"])
	assert.Equal(t, float64(0), got.body["temperature"])
	assert.Equal(t, false, got.body["stream"])
	assert.Equal(t, []interface{}{map[string]interface{}{"role": "user", "content": "hello"}}, got.body["messages"])
}

func TestCompletionRequestShape(t *testing.T) {
	var got capturedRequest
	srv := newServer(t, http.StatusOK, `{"choices":[{"text":"\n\nanswer"}]}`, &got)
	model := domain.ModelDescriptor{Model: "text-davinci-003", API: domain.APICompletion, MaxTokens: 4097}

	resp, err := providerFor(t, srv, model).Generate(context.Background(), ports.ProviderRequest{
		Prompt: "hello", Model: model, MaxTokens: 100, Temperature: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Text)
	assert.Equal(t, "/completions", got.path)
	assert.Equal(t, "hello", got.body["prompt"])
	assert.Equal(t, 0.5, got.body["temperature"])
	assert.NotContains(t, got.body, "messages")
}

func TestEmptyReplyBecomesNoResponse(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"choices":[]}`, nil)
	model := domain.ModelDescriptor{Model: "gpt-3.5-turbo", API: domain.APIChat, MaxTokens: 4096}

	resp, err := providerFor(t, srv, model).Generate(context.Background(), ports.ProviderRequest{Prompt: "x", Model: model, MaxTokens: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.NoResponseReply, resp.Text)
}

func TestErrorStatusIsTransportError(t *testing.T) {
	srv := newServer(t, http.StatusNotFound, `{"error":{"message":"The model does not exist","type":"invalid_request_error"}}`, nil)
	model := domain.ModelDescriptor{Model: "gpt-4", API: domain.APIChat, MaxTokens: 8192, Beta: true}

	_, err := providerFor(t, srv, model).Generate(context.Background(), ports.ProviderRequest{Prompt: "x", Model: model, MaxTokens: 1})
	var transport *domain.TransportError
	require.True(t, errors.As(err, &transport), "got %T", err)
	assert.Equal(t, http.StatusNotFound, transport.Status)
	assert.True(t, transport.Beta)
	assert.Contains(t, transport.Body, "does not exist")
	assert.Contains(t, transport.Err.Error(), "The model does not exist")
}

func TestMissingKeyStopsBeforeSending(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()
	missing := &domain.ConfigurationError{Msg: "OPENAI_API_KEY unset"}
	factory := NewFactory(srv.URL, staticKey{err: missing}, "")
	model := domain.ModelDescriptor{Model: "gpt-3.5-turbo", API: domain.APIChat, MaxTokens: 4096}
	p, err := factory.ForModel(model)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), ports.ProviderRequest{Prompt: "x", Model: model, MaxTokens: 1})
	assert.ErrorIs(t, err, missing)
	assert.False(t, called)
}

func TestCancelledContextIsTransportError(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{}`, nil)
	model := domain.ModelDescriptor{Model: "gpt-3.5-turbo", API: domain.APIChat, MaxTokens: 4096}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := providerFor(t, srv, model).Generate(ctx, ports.ProviderRequest{Prompt: "x", Model: model, MaxTokens: 1})
	var transport *domain.TransportError
	require.True(t, errors.As(err, &transport))
	assert.Zero(t, transport.Status)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForModelRejectsUnknownAPI(t *testing.T) {
	_, err := NewFactory("", staticKey{}, "").ForModel(domain.ModelDescriptor{Model: "x", API: "bard"})
	assert.Error(t, err)
}

func TestOrganizationHeader(t *testing.T) {
	t.Setenv("SLLM_TEST_ORG", "org-42")
	var got capturedRequest
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`, &got)
	model := domain.ModelDescriptor{Model: "gpt-3.5-turbo", API: domain.APIChat, MaxTokens: 4096}
	factory := NewFactory(srv.URL, staticKey{key: "k"}, "SLLM_TEST_ORG").WithHTTPClient(srv.Client())
	p, err := factory.ForModel(model)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), ports.ProviderRequest{Prompt: "x", Model: model, MaxTokens: 1})
	require.NoError(t, err)
	assert.Equal(t, "org-42", got.headers.Get("OpenAI-Organization"))
}

func TestOrganizationFromEnvFile(t *testing.T) {
	for _, name := range []string{"SLLM_TEST_FILE_KEY", "SLLM_TEST_FILE_ORG"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	envFile := filepath.Join(t.TempDir(), "sllm.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SLLM_TEST_FILE_KEY=sk-file\nSLLM_TEST_FILE_ORG=org-123\n"), 0o600))

	var got capturedRequest
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`, &got)
	model := domain.ModelDescriptor{Model: "gpt-3.5-turbo", API: domain.APIChat, MaxTokens: 4096}
	source := credentials.NewEnvSource("SLLM_TEST_FILE_KEY", envFile)
	p, err := NewFactory(srv.URL, source, "SLLM_TEST_FILE_ORG").WithHTTPClient(srv.Client()).ForModel(model)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), ports.ProviderRequest{Prompt: "x", Model: model, MaxTokens: 1})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-file", got.headers.Get("Authorization"))
	assert.Equal(t, "org-123", got.headers.Get("OpenAI-Organization"))
}
