// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const transcriberTimeout = 15 * time.Second

type restTranscriber struct {
	client *resty.Client
}

// NewTranscriber constructs the transcription client. One call submits a job,
// the caller polls GetJob until a terminal status; the client itself never
// waits for the job.
func NewTranscriber(baseURL, apiKey string) Transcriber {
	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(transcriberTimeout)
	if apiKey != "" {
		cli.SetHeader("Authorization", apiKey)
	}
	return &restTranscriber{client: cli}
}

func (t *restTranscriber) SubmitJob(ctx context.Context, mediaURL string) (string, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"audio_url": mediaURL}).
		Post("/v2/transcript")
	if err != nil {
		return "", fmt.Errorf("submit transcription job request: %w", err)
	}
	if err = mapVendorError(resp); err != nil {
		return "", err
	}

	var job TranscriptJob
	if err = json.Unmarshal(resp.Body(), &job); err != nil {
		return "", fmt.Errorf("decode transcription job response: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("transcription vendor returned no job id")
	}
	return job.ID, nil
}

func (t *restTranscriber) GetJob(ctx context.Context, jobID string) (TranscriptJob, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		Get("/v2/transcript/" + jobID)
	if err != nil {
		return TranscriptJob{}, fmt.Errorf("get transcription job request: %w", err)
	}
	if err = mapVendorError(resp); err != nil {
		return TranscriptJob{}, err
	}

	var job TranscriptJob
	if err = json.Unmarshal(resp.Body(), &job); err != nil {
		return TranscriptJob{}, fmt.Errorf("decode transcription job response: %w", err)
	}
	if job.Status == JobStatusError {
		return job, fmt.Errorf("%w: %s", ErrJobFailed, job.Error)
	}
	return job, nil
}
