// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const socialTimeout = 10 * time.Second

type socialClient struct {
	// resolver keeps redirects unfollowed so a short link's Location header
	// can be read; fetcher follows them normally.
	resolver *resty.Client
	fetcher  *resty.Client
}

// NewSocialClient constructs the public social-post client: short-link
// redirect resolution plus the platform's public JSON endpoint.
func NewSocialClient() SocialClient {
	resolver := resty.New().SetTimeout(socialTimeout)
	resolver.GetClient().CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &socialClient{
		resolver: resolver,
		fetcher:  resty.New().SetTimeout(socialTimeout),
	}
}

func (s *socialClient) ResolveRedirect(ctx context.Context, shortURL string) (string, error) {
	resp, err := s.resolver.R().
		SetContext(ctx).
		Get(shortURL)
	if err != nil {
		return "", fmt.Errorf("resolve redirect request: %w", err)
	}

	if resp.StatusCode() >= http.StatusMultipleChoices && resp.StatusCode() < http.StatusBadRequest {
		if location := resp.Header().Get("Location"); location != "" {
			return location, nil
		}
	}
	return shortURL, nil
}

func (s *socialClient) FetchPost(ctx context.Context, postURL string) (SocialPost, error) {
	resp, err := s.fetcher.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(jsonEndpoint(postURL))
	if err != nil {
		return SocialPost{}, fmt.Errorf("fetch post request: %w", err)
	}
	if err = mapVendorError(resp); err != nil {
		return SocialPost{}, err
	}

	var post SocialPost
	if err = json.Unmarshal(resp.Body(), &post); err != nil {
		return SocialPost{}, fmt.Errorf("decode post response: %w", err)
	}
	return post, nil
}

// jsonEndpoint maps a public post URL to its JSON representation.
func jsonEndpoint(postURL string) string {
	trimmed := strings.TrimRight(postURL, "/")
	if strings.HasSuffix(trimmed, ".json") {
		return trimmed
	}
	return trimmed + ".json"
}
