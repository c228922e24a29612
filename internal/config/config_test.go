package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"GITHUB_TOKEN",
	"GITHUB_REPOSITORY",
	"GITHUB_EVENT_NAME",
	"GITHUB_EVENT_PATH",
	"GITHUB_REF_NAME",
	"GITHUB_RUN_ID",
	"GITHUB_OUTPUT",
	"SOLFMTBOT_GITHUB_TOKEN",
	"SOLFMTBOT_PATTERN",
	"SOLFMTBOT_REMOTE",
	"SOLFMTBOT_BOT_NAME",
	"SOLFMTBOT_BOT_EMAIL",
	"SOLFMTBOT_COMMIT_MESSAGE",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment (e.g. a real Actions runner).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

// writeProjectFile drops a project settings file into dir.
func writeProjectFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, DefaultPattern, cfg.Pattern)
	assert.Equal(t, DefaultRemote, cfg.Remote)
	assert.Equal(t, DefaultBotName, cfg.BotName)
	assert.Equal(t, DefaultBotEmail, cfg.BotEmail)
	assert.Equal(t, DefaultCommitMessage, cfg.CommitMessage)
	assert.False(t, cfg.HasToken())
	assert.NotEmpty(t, cfg.RunID, "run id falls back to a generated value")
}

func TestLoad_ProjectFile(t *testing.T) {
	isolateConfigEnv(t)
	dir := t.TempDir()
	writeProjectFile(t, dir, `
pattern: ".vy"
remote: upstream
commit_message: "chore: reformat {{.Count}} file(s)"
bot:
  name: fmt-bot
  email: fmt-bot@example.com
`)

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, ".vy", cfg.Pattern)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.Equal(t, "chore: reformat {{.Count}} file(s)", cfg.CommitMessage)
	assert.Equal(t, "fmt-bot", cfg.BotName)
	assert.Equal(t, "fmt-bot@example.com", cfg.BotEmail)
}

func TestLoad_PartialProjectFileKeepsDefaults(t *testing.T) {
	isolateConfigEnv(t)
	dir := t.TempDir()
	writeProjectFile(t, dir, "remote: upstream\n")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.Equal(t, DefaultPattern, cfg.Pattern)
	assert.Equal(t, DefaultBotName, cfg.BotName)
}

func TestLoad_EnvOverridesProjectFile(t *testing.T) {
	isolateConfigEnv(t)
	dir := t.TempDir()
	writeProjectFile(t, dir, "pattern: \".vy\"\nremote: upstream\n")
	t.Setenv("SOLFMTBOT_PATTERN", ".sol")
	t.Setenv("SOLFMTBOT_BOT_NAME", "env-bot")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, ".sol", cfg.Pattern)
	assert.Equal(t, "upstream", cfg.Remote, "file value survives where env is silent")
	assert.Equal(t, "env-bot", cfg.BotName)
}

func TestLoad_TokenPrecedence(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghs_ambient")
	t.Setenv("SOLFMTBOT_GITHUB_TOKEN", "ghp_explicit")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "ghp_explicit", cfg.GitHubToken)
	assert.True(t, cfg.HasToken())
}

func TestLoad_AmbientTokenOnly(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghs_ambient")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "ghs_ambient", cfg.GitHubToken)
}

func TestLoad_ActionsContext(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_REPOSITORY", "acme/contracts")
	t.Setenv("GITHUB_EVENT_NAME", "pull_request")
	t.Setenv("GITHUB_EVENT_PATH", "/tmp/event.json")
	t.Setenv("GITHUB_REF_NAME", "feat/vault")
	t.Setenv("GITHUB_RUN_ID", "1234567890")
	t.Setenv("GITHUB_OUTPUT", "/tmp/output")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "acme/contracts", cfg.Repository)
	assert.Equal(t, "pull_request", cfg.EventName)
	assert.Equal(t, "/tmp/event.json", cfg.EventPath)
	assert.Equal(t, "feat/vault", cfg.RefName)
	assert.Equal(t, "1234567890", cfg.RunID)
	assert.Equal(t, "/tmp/output", cfg.OutputPath)
}

func TestLoad_MalformedProjectFile(t *testing.T) {
	isolateConfigEnv(t)
	dir := t.TempDir()
	writeProjectFile(t, dir, "pattern: [unclosed\n")

	cfg, err := Load(dir)

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ProjectFileName)
}

func TestLoad_EmptyPatternRejected(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("SOLFMTBOT_PATTERN", "")

	cfg, err := Load(t.TempDir())

	assert.Nil(t, cfg)
	require.Error(t, err)
}

func TestLoad_EmptyCommitMessageRejected(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("SOLFMTBOT_COMMIT_MESSAGE", "")

	cfg, err := Load(t.TempDir())

	assert.Nil(t, cfg)
	require.Error(t, err)
}
