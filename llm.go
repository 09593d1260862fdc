package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"
const defaultAzureAPIVersion = "2023-05-15"

// Classifier is the classification service boundary: one call per ticket,
// returning the raw label text. Slow, network-bound, and allowed to fail;
// the orchestrator decides what a failure means. No retries here.
type Classifier interface {
	Classify(ctx context.Context, userPrompt, systemPrompt string) (string, LLMUsage, error)
}

type LLMUsage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u LLMUsage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *LLMUsage) Add(other LLMUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// NewClassifier builds the provider selected by llm_provider. Missing
// credentials are not checked here; Config.ValidateService owns that, so
// permissive mode can still attempt a call that fails into a wrong answer.
func NewClassifier(cfg Config) (Classifier, error) {
	switch cfg.LLMProvider {
	case "anthropic":
		model := cfg.LLMModel
		if model == "" {
			model = defaultAnthropicModel
		}
		return &anthropicClassifier{apiKey: cfg.AnthropicAPIKey, model: model, temperature: cfg.Temperature}, nil
	case "openai":
		model := cfg.LLMModel
		if model == "" {
			model = defaultOpenAIModel
		}
		return &openAIClassifier{apiKey: cfg.OpenAIAPIKey, model: model, temperature: cfg.Temperature}, nil
	case "azure":
		apiVersion := cfg.AzureAPIVersion
		if apiVersion == "" {
			apiVersion = defaultAzureAPIVersion
		}
		return &azureClassifier{
			apiKey:      cfg.AzureAPIKey,
			endpoint:    strings.TrimRight(cfg.AzureEndpoint, "/"),
			deployment:  cfg.AzureDeployment,
			apiVersion:  apiVersion,
			temperature: cfg.Temperature,
		}, nil
	default:
		return nil, fmt.Errorf("llm_provider must be 'anthropic', 'openai' or 'azure', got '%s'", cfg.LLMProvider)
	}
}

// --- Anthropic ---

type anthropicClassifier struct {
	apiKey      string
	model       string
	temperature float64
}

func (c *anthropicClassifier) Classify(ctx context.Context, userPrompt, systemPrompt string) (string, LLMUsage, error) {
	client := anthropic.NewClient(option.WithAPIKey(c.apiKey))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   256,
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			// The system prompt and the catalog reference repeat on every
			// query, so prompt caching pays for itself after the first call.
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("Anthropic API error: %w", err)
	}
	usage := LLMUsage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			// Returned verbatim. The evaluator compares exact strings, and a
			// model that emits stray whitespace is failing the output
			// contract; trimming here would hide that.
			return block.Text, usage, nil
		}
	}
	return "", usage, fmt.Errorf("no text content in Anthropic response")
}

// --- OpenAI-style chat completions (OpenAI and Azure OpenAI) ---

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type openAIClassifier struct {
	apiKey      string
	model       string
	temperature float64
}

func (c *openAIClassifier) Classify(ctx context.Context, userPrompt, systemPrompt string) (string, LLMUsage, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)
	return postChatCompletion(ctx, "https://api.openai.com/v1/chat/completions", header, chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
}

// azureClassifier talks to an Azure OpenAI deployment. The deployment name
// selects the model, so the request body carries no model field.
type azureClassifier struct {
	apiKey      string
	endpoint    string
	deployment  string
	apiVersion  string
	temperature float64
}

func (c *azureClassifier) Classify(ctx context.Context, userPrompt, systemPrompt string) (string, LLMUsage, error) {
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
	header := http.Header{}
	header.Set("api-key", c.apiKey)
	return postChatCompletion(ctx, url, header, chatRequest{
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
}

func postChatCompletion(ctx context.Context, url string, header http.Header, reqBody chatRequest) (string, LLMUsage, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		log.Printf("llm chat completion error url=%s err=%v", url, err)
		return "", LLMUsage{}, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("reading response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", LLMUsage{}, fmt.Errorf("parsing chat completion response (status %d): %w", resp.StatusCode, err)
	}

	if chatResp.Error != nil {
		return "", LLMUsage{}, fmt.Errorf("chat completion API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", LLMUsage{}, fmt.Errorf("no choices in chat completion response (status %d)", resp.StatusCode)
	}

	usage := LLMUsage{}
	if chatResp.Usage != nil {
		usage.InputTokens = chatResp.Usage.PromptTokens
		usage.OutputTokens = chatResp.Usage.CompletionTokens
	}
	return chatResp.Choices[0].Message.Content, usage, nil
}
