// Package llm wraps the chat-completion endpoint used to write emails and
// extract report metrics.
//
// Every call uses fixed sampling parameters and returns the text of the first
// choice. Transport failures, provider error payloads and empty responses are
// all reported as core completion errors; nothing is retried.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"reportmailer/core"
)

const opComplete = "llm.complete"

// Message roles accepted by the completion endpoint.
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// DefaultSystemPrompt is the system message sent ahead of every request.
const DefaultSystemPrompt = "You are a helpful assistant."

// Message is one role-tagged entry of a chat request.
type Message struct {
	Role    string
	Content string
}

// SystemMessage returns a message with the system role.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a message with the user role.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Completer produces the text of a single completion for a list of messages.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, messages []Message) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// Sampling holds the fixed generation parameters.
type Sampling struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	api      *openai.Client
	model    string
	sampling Sampling
}

// NewClient creates a Client using an already configured go-openai client.
func NewClient(api *openai.Client, model string, sampling Sampling) *Client {
	return &Client{api: api, model: model, sampling: sampling}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Complete sends messages and returns the content of the first choice.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", core.CompletionError(opComplete, "no messages to send", nil)
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(messages),
		MaxTokens:   c.sampling.MaxTokens,
		Temperature: c.sampling.Temperature,
		TopP:        c.sampling.TopP,
		N:           1,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", core.CompletionError(opComplete, describeAPIError(err), err)
	}

	if len(resp.Choices) == 0 {
		return "", core.CompletionError(opComplete, "response contained no choices", nil)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", core.CompletionError(opComplete, "response was empty", nil)
	}
	return content, nil
}

// CompletePrompt sends a single user prompt without a system message.
func (c *Client) CompletePrompt(ctx context.Context, prompt string) (string, error) {
	return c.Complete(ctx, []Message{UserMessage(prompt)})
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// describeAPIError summarizes provider error payloads for the operator.
func describeAPIError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("provider returned HTTP %d", apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("request failed with HTTP %d", reqErr.HTTPStatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return "request failed"
}
