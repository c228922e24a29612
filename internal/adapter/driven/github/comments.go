package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v82/github"
)

// UpsertIssueComment creates or updates a top-level PR comment carrying the
// given marker. Existing comments are scanned for the marker; a match is
// edited in place so repeated runs on the same PR never stack duplicates.
// The marker is embedded in the comment body as an HTML comment, invisible
// in the rendered view.
func (c *Client) UpsertIssueComment(ctx context.Context, repoFullName string, prNumber int, marker, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	full := fmt.Sprintf("<!-- %s -->\n%s", marker, body)

	existing, err := c.findMarkedComment(ctx, owner, repo, prNumber, marker)
	if err != nil {
		return err
	}

	if existing != nil {
		_, _, err = c.gh.Issues.EditComment(ctx, owner, repo, existing.GetID(), &gh.IssueComment{
			Body: gh.Ptr(full),
		})
		if err != nil {
			return fmt.Errorf("updating comment %d on %s#%d: %w", existing.GetID(), repoFullName, prNumber, err)
		}
		return nil
	}

	_, _, err = c.gh.Issues.CreateComment(ctx, owner, repo, prNumber, &gh.IssueComment{
		Body: gh.Ptr(full),
	})
	if err != nil {
		return fmt.Errorf("creating comment on %s#%d: %w", repoFullName, prNumber, err)
	}

	return nil
}

// findMarkedComment pages through the PR's issue comments looking for one
// whose body contains the marker. Returns nil when no comment matches.
func (c *Client) findMarkedComment(ctx context.Context, owner, repo string, prNumber int, marker string) (*gh.IssueComment, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments on %s/%s#%d (page %d): %w", owner, repo, prNumber, opts.Page, err)
		}

		logRateLimit(resp, owner+"/"+repo+"/comments", opts.Page, len(comments))

		for _, comment := range comments {
			if strings.Contains(comment.GetBody(), marker) {
				return comment, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return nil, nil
}
