package vendors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrRateLimited means the vendor rejected the call with HTTP 429.
	ErrRateLimited = errors.New("vendor rate limited")
	// ErrJobFailed means the transcription vendor reported the job as failed.
	ErrJobFailed = errors.New("transcription job failed")
	// ErrEmptyCompletion means the language model returned no usable text.
	ErrEmptyCompletion = errors.New("empty model completion")
)

func mapVendorError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return ErrRateLimited
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("vendor http %d: %s", resp.StatusCode(), body)
}
