package ai

import (
	"fmt"
	"net/http"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

// Factory builds providers for the API family of a model.
type Factory struct {
	baseURL     string
	orgEnvVar   string
	credentials ports.CredentialSource
	httpClient  *http.Client
}

// NewFactory returns a factory talking to baseURL. The client carries no
// timeout of its own; callers bound the request through its context.
func NewFactory(baseURL string, credentials ports.CredentialSource, orgEnvVar string) *Factory {
	return &Factory{
		baseURL:     valueOrDefault(baseURL, domain.DefaultBaseURL),
		orgEnvVar:   orgEnvVar,
		credentials: credentials,
		httpClient:  &http.Client{},
	}
}

// WithHTTPClient replaces the HTTP client, mostly for tests.
func (f *Factory) WithHTTPClient(client *http.Client) *Factory {
	f.httpClient = client
	return f
}

func (f *Factory) ForModel(model domain.ModelDescriptor) (ports.Provider, error) {
	switch model.API {
	case domain.APIChat:
		return f.newHTTPProvider("chat", chatAdapter()), nil
	case domain.APICompletion:
		return f.newHTTPProvider("completion", completionAdapter()), nil
	default:
		return nil, &domain.ConfigurationError{
			Msg: fmt.Sprintf("unknown api %q for model %s", model.API, model.Model),
		}
	}
}

func (f *Factory) newHTTPProvider(name string, adapter providerAdapter) ports.Provider {
	return &httpProvider{
		name:        name,
		baseURL:     f.baseURL,
		orgEnvVar:   f.orgEnvVar,
		credentials: f.credentials,
		httpClient:  f.httpClient,
		adapter:     adapter,
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
