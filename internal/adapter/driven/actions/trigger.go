// Package actions integrates with the GitHub Actions runtime: it parses
// workflow event payloads into domain triggers and writes step outputs.
package actions

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// ParseTrigger builds a Trigger from the workflow event name and payload
// path (GITHUB_EVENT_NAME / GITHUB_EVENT_PATH). An empty event name means
// the process is not running under Actions; callers fall back to manual
// configuration and get nil, nil.
func ParseTrigger(eventName, eventPath string) (*model.Trigger, error) {
	if eventName == "" {
		return nil, nil
	}
	if eventPath == "" {
		return nil, fmt.Errorf("event %q has no payload path", eventName)
	}

	data, err := os.ReadFile(eventPath)
	if err != nil {
		return nil, fmt.Errorf("reading event payload %s: %w", eventPath, err)
	}

	switch eventName {
	case "pull_request", "pull_request_target":
		return parsePullRequestEvent(data)
	case "push":
		return parsePushEvent(data)
	default:
		return nil, fmt.Errorf("unsupported event %q: expected pull_request, pull_request_target, or push", eventName)
	}
}

func parsePullRequestEvent(data []byte) (*model.Trigger, error) {
	var event gh.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decoding pull request event: %w", err)
	}

	pr := event.GetPullRequest()
	if pr == nil {
		return nil, fmt.Errorf("pull request event has no pull_request payload")
	}

	return &model.Trigger{
		Kind:         model.TriggerPullRequest,
		RepoFullName: event.GetRepo().GetFullName(),
		PRNumber:     pr.GetNumber(),
		Branch:       pr.GetHead().GetRef(),
		Revisions: model.RevisionPair{
			Base: pr.GetBase().GetSHA(),
			Head: pr.GetHead().GetSHA(),
		},
	}, nil
}

func parsePushEvent(data []byte) (*model.Trigger, error) {
	var event gh.PushEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decoding push event: %w", err)
	}

	return &model.Trigger{
		Kind:         model.TriggerPush,
		RepoFullName: event.GetRepo().GetFullName(),
		Branch:       strings.TrimPrefix(event.GetRef(), "refs/heads/"),
		Revisions: model.RevisionPair{
			Base: event.GetBefore(),
			Head: event.GetAfter(),
		},
	}, nil
}
