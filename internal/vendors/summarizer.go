// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	summarizerTimeout = 30 * time.Second

	systemPrompt = "You summarize saved web content. Reply with a short TLDR " +
		"of at most three sentences, plain text, no preamble."
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type restSummarizer struct {
	client *resty.Client
	model  string
}

// NewSummarizer constructs the language-model client speaking the
// chat-completions dialect.
func NewSummarizer(baseURL, apiKey, model string) Summarizer {
	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(summarizerTimeout)
	if apiKey != "" {
		cli.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &restSummarizer{client: cli, model: model}
}

func (s *restSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{
			Model: s.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: text},
			},
			Temperature: 0.2,
		}).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("summarize request: %w", err)
	}
	if err = mapVendorError(resp); err != nil {
		return "", err
	}

	var cr chatResponse
	if err = json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", fmt.Errorf("decode summarize response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	summary := strings.TrimSpace(cr.Choices[0].Message.Content)
	if summary == "" {
		return "", ErrEmptyCompletion
	}
	return summary, nil
}
