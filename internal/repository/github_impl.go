package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// githubPublisher is the go-github backed implementation of
// ReleasePublisher.
type githubPublisher struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGithubPublisher creates a ReleasePublisher for owner/repo using the
// given token.
func NewGithubPublisher(token, owner, repo string) (ReleasePublisher, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("github token is empty")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return &githubPublisher{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// PublishRelease creates a release for the given tag and returns its URL.
func (p *githubPublisher) PublishRelease(ctx context.Context, tag, name, body string) (string, error) {
	release := &github.RepositoryRelease{
		TagName: github.Ptr(tag),
		Name:    github.Ptr(name),
		Body:    github.Ptr(body),
	}
	created, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, release)
	if err != nil {
		return "", fmt.Errorf("failed to create release %s: %w", tag, err)
	}
	return created.GetHTMLURL(), nil
}

var githubRemotePattern = regexp.MustCompile(
	`^(?:https://github\.com/|git@github\.com:)([^/]+)/(.+?)(?:\.git)?$`,
)

// ParseGithubRemote extracts owner and repo from an origin URL. ok is
// false for non-GitHub remotes.
func ParseGithubRemote(url string) (owner, repo string, ok bool) {
	m := githubRemotePattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
