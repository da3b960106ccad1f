package relay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"ehow/errs"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Dispatcher triggers the downstream rebuild.
type Dispatcher interface {
	Dispatch(ctx context.Context) error
}

// WorkflowTarget identifies the GitHub Actions workflow to run.
type WorkflowTarget struct {
	Owner    string
	Repo     string
	Workflow string
	Ref      string
}

func (w WorkflowTarget) String() string {
	return fmt.Sprintf("%s on %s/%s ref %s", w.Workflow, w.Owner, w.Repo, w.Ref)
}

// GitHubDispatcher fires a workflow_dispatch event with a static bearer token.
type GitHubDispatcher struct {
	client *github.Client
	target WorkflowTarget
	logger *zap.Logger
}

// NewGitHubDispatcher builds an authenticated client. baseURL overrides the public API
// endpoint (GitHub Enterprise or tests) when non-empty.
func NewGitHubDispatcher(ctx context.Context, token string, target WorkflowTarget, baseURL string, logger *zap.Logger) (*GitHubDispatcher, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		client.BaseURL = u
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitHubDispatcher{client: client, target: target, logger: logger}, nil
}

// Dispatch posts to /repos/{owner}/{repo}/actions/workflows/{workflow}/dispatches.
func (d *GitHubDispatcher) Dispatch(ctx context.Context) error {
	d.logger.Info("triggering workflow dispatch", zap.Stringer("target", d.target))

	_, err := d.client.Actions.CreateWorkflowDispatchEventByFileName(ctx,
		d.target.Owner, d.target.Repo, d.target.Workflow,
		github.CreateWorkflowDispatchEventRequest{Ref: d.target.Ref})
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil {
			err = &errs.UpstreamError{
				Op:         "workflow dispatch",
				StatusCode: ghErr.Response.StatusCode,
				Body:       ghErr.Message,
			}
		} else {
			err = fmt.Errorf("workflow dispatch request failed: %w", err)
		}
		d.logger.Warn("workflow dispatch failed", zap.Error(err))
		return err
	}

	d.logger.Info("workflow dispatch accepted")
	return nil
}
