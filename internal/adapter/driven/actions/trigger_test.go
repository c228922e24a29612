package actions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/solfmtbot/internal/adapter/driven/actions"
	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// writeEvent writes a workflow event payload to a temp file and returns its path.
func writeEvent(t *testing.T, payload string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

const pullRequestPayload = `{
	"pull_request": {
		"number": 7,
		"head": {"ref": "feat/vault", "sha": "head456head456head456head456head456head4"},
		"base": {"sha": "base123base123base123base123base123base1"}
	},
	"repository": {"full_name": "acme/contracts"}
}`

func TestParseTrigger_PullRequest(t *testing.T) {
	path := writeEvent(t, pullRequestPayload)

	trigger, err := actions.ParseTrigger("pull_request", path)
	require.NoError(t, err)
	require.NotNil(t, trigger)

	assert.Equal(t, model.TriggerPullRequest, trigger.Kind)
	assert.Equal(t, "acme/contracts", trigger.RepoFullName)
	assert.Equal(t, 7, trigger.PRNumber)
	assert.Equal(t, "feat/vault", trigger.Branch)
	assert.Equal(t, "base123base123base123base123base123base1", trigger.Revisions.Base)
	assert.Equal(t, "head456head456head456head456head456head4", trigger.Revisions.Head)
	assert.True(t, trigger.IsPullRequest())
}

func TestParseTrigger_PullRequestTarget(t *testing.T) {
	path := writeEvent(t, pullRequestPayload)

	trigger, err := actions.ParseTrigger("pull_request_target", path)
	require.NoError(t, err)
	require.NotNil(t, trigger)

	assert.Equal(t, model.TriggerPullRequest, trigger.Kind)
	assert.Equal(t, 7, trigger.PRNumber)
}

func TestParseTrigger_Push(t *testing.T) {
	path := writeEvent(t, `{
		"ref": "refs/heads/main",
		"before": "1111111111111111111111111111111111111111",
		"after": "2222222222222222222222222222222222222222",
		"repository": {"full_name": "acme/contracts"}
	}`)

	trigger, err := actions.ParseTrigger("push", path)
	require.NoError(t, err)
	require.NotNil(t, trigger)

	assert.Equal(t, model.TriggerPush, trigger.Kind)
	assert.Equal(t, "acme/contracts", trigger.RepoFullName)
	assert.Equal(t, "main", trigger.Branch)
	assert.Equal(t, "1111111111111111111111111111111111111111", trigger.Revisions.Base)
	assert.Equal(t, "2222222222222222222222222222222222222222", trigger.Revisions.Head)
	assert.False(t, trigger.IsPullRequest())
}

func TestParseTrigger_FirstPushHasMissingBase(t *testing.T) {
	path := writeEvent(t, `{
		"ref": "refs/heads/main",
		"before": "`+model.ZeroSHA+`",
		"after": "2222222222222222222222222222222222222222",
		"repository": {"full_name": "acme/contracts"}
	}`)

	trigger, err := actions.ParseTrigger("push", path)
	require.NoError(t, err)
	require.NotNil(t, trigger)

	assert.True(t, trigger.Revisions.BaseMissing(), "branch-creation push carries the zero SHA base through")
}

func TestParseTrigger_NotUnderActions(t *testing.T) {
	trigger, err := actions.ParseTrigger("", "")
	require.NoError(t, err)
	assert.Nil(t, trigger)
}

func TestParseTrigger_UnsupportedEvent(t *testing.T) {
	path := writeEvent(t, `{}`)

	_, err := actions.ParseTrigger("issue_comment", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported event")
}

func TestParseTrigger_MissingPayloadPath(t *testing.T) {
	_, err := actions.ParseTrigger("push", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no payload path")
}

func TestParseTrigger_UnreadablePayload(t *testing.T) {
	_, err := actions.ParseTrigger("push", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseTrigger_MalformedPayload(t *testing.T) {
	path := writeEvent(t, `{not json`)

	_, err := actions.ParseTrigger("pull_request", path)
	assert.Error(t, err)
}

func TestParseTrigger_PullRequestWithoutPayload(t *testing.T) {
	path := writeEvent(t, `{"repository": {"full_name": "acme/contracts"}}`)

	_, err := actions.ParseTrigger("pull_request", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pull_request payload")
}
