package groq

import (
	"context"
	"fmt"

	"github.com/conneroisu/groq-go"

	"contentpilot/internal/llm"
)

type Client struct {
	client    *groq.Client
	model     groq.ChatModel
	maxTokens int
}

var _ llm.Client = (*Client)(nil)

type Options struct {
	Model     string
	MaxTokens int
	BaseURL   string
}

func NewClient(apiKey string, opts Options) (*Client, error) {
	var clientOpts []groq.Opts
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, groq.WithBaseURL(opts.BaseURL))
	}

	client, err := groq.NewClient(apiKey, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &Client{
		client:    client,
		model:     groq.ChatModel(opts.Model),
		maxTokens: opts.MaxTokens,
	}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	var messages []groq.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, groq.ChatCompletionMessage{Role: groq.RoleSystem, Content: req.System})
	}
	messages = append(messages, groq.ChatCompletionMessage{Role: groq.RoleUser, Content: req.User})

	chatReq := groq.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.JSON {
		chatReq.ResponseFormat = &groq.ChatResponseFormat{Type: "json_object"}
	}

	resp, err := c.client.ChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", llm.ErrNoResponse
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", llm.ErrEmptyResponse
	}

	return content, nil
}
