package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maheshrc27/contentflow/internal/transfer"
)

type openAICompleter struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewOpenAICompleter(httpClient *http.Client, baseURL, apiKey, model string) Completer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &openAICompleter{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

func (c *openAICompleter) Name() string { return "openai" }

func (c *openAICompleter) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := transfer.ChatCompletionRequest{
		Model: c.model,
		Messages: []transfer.ChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature:    temperature,
		ResponseFormat: &transfer.ResponseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var chatResp transfer.ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai %s: %s", chatResp.Error.Type, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
