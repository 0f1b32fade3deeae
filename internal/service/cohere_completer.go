package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

type cohereCompleter struct {
	client *cohereclient.Client
	model  string
}

func NewCohereCompleter(httpClient *http.Client, apiKey, model string) Completer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &cohereCompleter{client: client, model: model}
}

func (c *cohereCompleter) Name() string { return "cohere" }

func (c *cohereCompleter) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:     prompt,
		Model:       cohere.String(c.model),
		Temperature: cohere.Float64(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || resp.Text == "" {
		return "", errors.New("cohere chat returned empty response")
	}
	return resp.Text, nil
}
