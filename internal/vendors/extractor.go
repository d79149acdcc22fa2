// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	extractorTimeout   = 10 * time.Second
	extractorRetryWait = 2 * time.Second
	extractorRetryMax  = 6 * time.Second
)

type restExtractor struct {
	client *resty.Client
}

// NewExtractor constructs the metadata extraction client. The client carries
// a hard per-call timeout and exactly one retry with an escalated wait, so a
// slow vendor degrades into the caller's fallback instead of stalling the
// pipeline.
func NewExtractor(baseURL, apiKey string) Extractor {
	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(extractorTimeout).
		SetRetryCount(1).
		SetRetryWaitTime(extractorRetryWait).
		SetRetryMaxWaitTime(extractorRetryMax).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})
	if apiKey != "" {
		cli.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &restExtractor{client: cli}
}

func (e *restExtractor) Extract(ctx context.Context, pageURL string, contentType string) (Metadata, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"url": pageURL, "content_type": contentType}).
		Post("/v0/extract")
	if err != nil {
		return Metadata{}, fmt.Errorf("extract request: %w", err)
	}
	if err = mapVendorError(resp); err != nil {
		return Metadata{}, err
	}

	var meta Metadata
	if err = json.Unmarshal(resp.Body(), &meta); err != nil {
		return Metadata{}, fmt.Errorf("decode extract response: %w", err)
	}
	return meta, nil
}
