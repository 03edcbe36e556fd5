// Package directory resolves application and job references against
// the recruitment platform's CRUD API. Read-only from this service's
// point of view.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hireloop/interviewd/internal/interviews"
	"github.com/hireloop/interviewd/pkg/errors"
)

type Config struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		base:  cfg.BaseURL,
		token: cfg.Token,
		http:  &http.Client{Timeout: timeout},
	}
}

type Client struct {
	base  string
	token string
	http  *http.Client
}

func (c *Client) Find(ctx context.Context, applicationID string) (*interviews.ApplicationRef, error) {
	var payload struct {
		ID    string `json:"id"`
		JobID string `json:"job_id"`
		Name  string `json:"applicant_name"`
		Email string `json:"applicant_email"`
	}

	found, err := c.get(ctx, fmt.Sprintf("%s/applications/%s", c.base, applicationID), &payload)
	if err != nil || !found {
		return nil, err
	}

	return &interviews.ApplicationRef{
		ID:             payload.ID,
		JobID:          payload.JobID,
		ApplicantName:  payload.Name,
		ApplicantEmail: payload.Email,
	}, nil
}

func (c *Client) Jobs() interviews.JobDirectory {
	return jobClient{c}
}

type jobClient struct {
	*Client
}

func (c jobClient) Find(ctx context.Context, jobID string) (*interviews.JobRef, error) {
	var payload struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Group string `json:"research_group"`
	}

	found, err := c.get(ctx, fmt.Sprintf("%s/jobs/%s", c.base, jobID), &payload)
	if err != nil || !found {
		return nil, err
	}

	return &interviews.JobRef{
		ID:            payload.ID,
		Title:         payload.Title,
		ResearchGroup: payload.Group,
	}, nil
}

func (c *Client) get(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, errors.WrapFail(err, "build directory request")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, errors.WrapFail(err, "call directory")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	if resp.StatusCode != http.StatusOK {
		return false, errors.Failf("call directory: unexpected status %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return false, errors.WrapFail(err, "decode directory response")
	}

	return true, nil
}
