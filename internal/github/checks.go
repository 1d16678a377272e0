package github

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/dshills/clippycheck/internal/check"
	"github.com/dshills/clippycheck/internal/diagnostic"
)

// CheckRunOutput is the output object of a check run.
type CheckRunOutput struct {
	Title       string                  `json:"title"`
	Summary     string                  `json:"summary"`
	Text        string                  `json:"text,omitempty"`
	Annotations []diagnostic.Annotation `json:"annotations,omitempty"`
}

// CheckRunRequest is the body of a create or update check-run call.
type CheckRunRequest struct {
	Name        string          `json:"name,omitempty"`
	HeadSHA     string          `json:"head_sha,omitempty"`
	Status      string          `json:"status,omitempty"`
	Conclusion  string          `json:"conclusion,omitempty"`
	StartedAt   string          `json:"started_at,omitempty"`
	CompletedAt string          `json:"completed_at,omitempty"`
	Output      *CheckRunOutput `json:"output,omitempty"`
}

// CheckRun is the subset of the check-run resource used here.
type CheckRun struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	HTMLURL string `json:"html_url"`
}

// CreateCheckRun opens a new check run.
func (c *Client) CreateCheckRun(ctx context.Context, owner, repo string, req CheckRunRequest) (CheckRun, error) {
	var run CheckRun
	path := fmt.Sprintf("/repos/%s/%s/check-runs", owner, repo)
	if err := c.do(ctx, "POST", path, req, &run); err != nil {
		return CheckRun{}, errors.Wrap(err, "creating check run")
	}
	return run, nil
}

// UpdateCheckRun updates an existing check run.
func (c *Client) UpdateCheckRun(ctx context.Context, owner, repo string, id int64, req CheckRunRequest) error {
	path := fmt.Sprintf("/repos/%s/%s/check-runs/%d", owner, repo, id)
	if err := c.do(ctx, "PATCH", path, req, nil); err != nil {
		return errors.Wrapf(err, "updating check run %d", id)
	}
	return nil
}

// CheckService adapts a Client to check.Service.
type CheckService struct {
	client *Client
}

// NewCheckService returns a check.Service backed by client.
func NewCheckService(client *Client) *CheckService {
	return &CheckService{client: client}
}

var _ check.Service = (*CheckService)(nil)

// Create implements check.Service.
func (s *CheckService) Create(ctx context.Context, req check.CreateRequest) (int64, error) {
	run, err := s.client.CreateCheckRun(ctx, req.Owner, req.Repo, CheckRunRequest{
		Name:      req.Name,
		HeadSHA:   req.HeadSHA,
		Status:    req.Status.String(),
		StartedAt: formatTime(req.StartedAt),
	})
	if err != nil {
		return 0, err
	}
	return run.ID, nil
}

// Update implements check.Service.
func (s *CheckService) Update(ctx context.Context, req check.UpdateRequest) error {
	body := CheckRunRequest{
		Name:        req.Name,
		Status:      req.Status.String(),
		Conclusion:  req.Conclusion.String(),
		CompletedAt: formatTime(req.CompletedAt),
		Output: &CheckRunOutput{
			Title:       req.Output.Title,
			Summary:     req.Output.Summary,
			Text:        req.Output.Text,
			Annotations: req.Output.Annotations,
		},
	}
	return s.client.UpdateCheckRun(ctx, req.Owner, req.Repo, req.CheckRunID, body)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
