package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

// Clock abstracts waiting so poll tests run without wall-clock sleeps.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Result is a downloaded manual.
type Result struct {
	FileName string
	Data     []byte
}

// Client drives a generation request to completion against the HTTP API:
// submit, poll until terminal, download. Every phase failure maps to one of
// the package error sentinels.
type Client struct {
	// HTTP is the transport; nil means http.DefaultClient.
	HTTP *http.Client
	// BaseURL is the API root, e.g. "http://localhost:8080/api/v1".
	BaseURL string
	// Interval is the poll cadence between status checks.
	Interval time.Duration
	// MaxAttempts bounds the number of status checks before giving up.
	MaxAttempts int
	// Clock is a test seam; nil means real time.
	Clock Clock
}

// NewClient builds a Client with the standard poll budget of 30 checks every
// two seconds.
func NewClient(baseURL string) *Client {
	return &Client{
		HTTP:        http.DefaultClient,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Interval:    2 * time.Second,
		MaxAttempts: 30,
	}
}

// GenerateAndDownload submits a manual-generation request for the project,
// optionally narrowed to featureIDs, and blocks until the document is
// downloaded, the job fails, the poll budget is exhausted, or ctx is
// cancelled (surfaced as ctx.Err, distinct from ErrPollTimeout).
// idempotencyKey is optional and forwarded on the submission.
func (c *Client) GenerateAndDownload(ctx context.Context, projectID string, featureIDs []string, idempotencyKey string) (*Result, error) {
	job, err := c.submit(ctx, projectID, featureIDs, idempotencyKey)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < c.maxAttempts(); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-c.clock().After(c.interval()):
			}
		}

		job, err = c.status(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		switch job.Status {
		case domain.JobStatusCompleted:
			return c.download(ctx, job)
		case domain.JobStatusFailed:
			reason := job.Error
			if reason == "" {
				reason = "no reason reported"
			}
			return nil, fmt.Errorf("%w: %s", ErrJobFailed, reason)
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrPollTimeout, c.maxAttempts())
}

// submit posts the generation request and returns the accepted job.
func (c *Client) submit(ctx context.Context, projectID string, featureIDs []string, idempotencyKey string) (*domain.DocumentationJob, error) {
	body, _ := json.Marshal(struct {
		ProjectID  string   `json:"projectId"`
		FeatureIDs []string `json:"featureIds,omitempty"`
	}{projectID, featureIDs})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/docs/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSubmission, resp.StatusCode)
	}
	var job domain.DocumentationJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSubmission, err)
	}
	if job.ID == "" {
		return nil, fmt.Errorf("%w: response carried no job id", ErrSubmission)
	}
	return &job, nil
}

// status fetches the current job snapshot.
func (c *Client) status(ctx context.Context, jobID string) (*domain.DocumentationJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/docs/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusCheck, err)
	}
	resp, err := c.http().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusCheck, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status check returned %d", ErrStatusCheck, resp.StatusCode)
	}
	var job domain.DocumentationJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("%w: decode status: %v", ErrStatusCheck, err)
	}
	return &job, nil
}

// download fetches the finished document from the job's signed URL.
func (c *Client) download(ctx context.Context, job *domain.DocumentationJob) (*Result, error) {
	if job.DownloadURL == "" {
		return nil, fmt.Errorf("%w: completed job carried no download url", ErrDownload)
	}
	target := job.DownloadURL
	if strings.HasPrefix(target, "/") {
		base, err := url.Parse(c.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDownload, err)
		}
		target = base.Scheme + "://" + base.Host + target
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	resp, err := c.http().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrDownload, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	return &Result{FileName: fileName(resp, target), Data: data}, nil
}

// fileName prefers the server's Content-Disposition, falling back to the
// final URL path segment.
func fileName(resp *http.Response, target string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if n := params["filename"]; n != "" {
				return n
			}
		}
	}
	if u, err := url.Parse(target); err == nil {
		if n := path.Base(u.Path); n != "." && n != "/" {
			return n
		}
	}
	return "user-manual"
}

func (c *Client) http() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) clock() Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return realClock{}
}

func (c *Client) interval() time.Duration {
	if c.Interval > 0 {
		return c.Interval
	}
	return 2 * time.Second
}

func (c *Client) maxAttempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return 30
}
