package llm

import (
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"reportmailer/core"
)

// ClientFactory builds a Client per request. The operator may type an API
// key into the form; when they do not, the preconfigured key is used.
//
// Example:
//
//	factory := llm.NewClientFactory(cfg)
//	client, err := factory.ForKey(formKey)
type ClientFactory struct {
	apiKey     string
	baseURL    string
	model      string
	sampling   Sampling
	httpClient *http.Client
}

// NewClientFactory creates a ClientFactory from the loaded configuration.
func NewClientFactory(cfg *core.Config) *ClientFactory {
	return &ClientFactory{
		apiKey:  cfg.OpenAIAPIKey,
		baseURL: cfg.OpenAIBaseURL,
		model:   cfg.Model,
		sampling: Sampling{
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			MaxTokens:   cfg.ResponseTokens,
		},
		httpClient: &http.Client{Timeout: cfg.AITimeout},
	}
}

// ResolveAPIKey returns the operator key if non-empty, otherwise the
// preconfigured key.
func ResolveAPIKey(operatorKey, configuredKey string) string {
	if key := strings.TrimSpace(operatorKey); key != "" {
		return key
	}
	return configuredKey
}

// ForKey returns a Client authenticated with operatorKey or, when it is
// empty, with the preconfigured key. Having neither is a validation error.
func (f *ClientFactory) ForKey(operatorKey string) (*Client, error) {
	key := ResolveAPIKey(operatorKey, f.apiKey)
	if key == "" {
		return nil, core.ValidationError("llm.client", "an OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(key)
	if f.baseURL != "" {
		clientConfig.BaseURL = f.baseURL
	}
	if f.httpClient != nil {
		clientConfig.HTTPClient = f.httpClient
	}

	return NewClient(openai.NewClientWithConfig(clientConfig), f.model, f.sampling), nil
}

// Completer is ForKey returning the Completer interface, for callers that
// select a client per request.
func (f *ClientFactory) Completer(operatorKey string) (Completer, error) {
	client, err := f.ForKey(operatorKey)
	if err != nil {
		return nil, err
	}
	return client, nil
}
