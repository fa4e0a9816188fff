package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/rs/zerolog/log"

	"github.com/DistriaGit/distria_api/internal/config"
)

var ErrLLMNotConfigured = errors.New("llm is not configured")

// Client wraps the OpenRouter chat API. When no API key is configured the
// client stays disabled and every call fails with ErrLLMNotConfigured, so the
// rest of the API keeps working without a model.
type Client struct {
	client  *openrouter.Client
	model   string
	enabled bool
}

// NewClient builds an OpenRouter client from config.
func NewClient(cfg *config.OpenRouterConfig) *Client {
	model := strings.TrimSpace(cfg.Model)
	apiKey := strings.TrimSpace(cfg.APIKey)

	if model == "" || apiKey == "" {
		log.Warn().Bool("has_model", model != "").Bool("has_api_key", apiKey != "").
			Msg("OpenRouter config incomplete - chat agent disabled")
		return &Client{model: model}
	}

	clientCfg := openrouter.DefaultConfig(apiKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client:  openrouter.NewClientWithConfig(*clientCfg),
		model:   model,
		enabled: true,
	}
}

// Enabled reports whether the client can reach a model.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// ChatWithMessages sends one completion request with the tool schema table.
func (c *Client) ChatWithMessages(ctx context.Context, messages []openrouter.ChatCompletionMessage, tools []openrouter.Tool) (openrouter.ChatCompletionResponse, error) {
	if !c.Enabled() || c.client == nil {
		return openrouter.ChatCompletionResponse{}, ErrLLMNotConfigured
	}

	request := openrouter.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
	}
	return c.client.CreateChatCompletion(ctx, request)
}
