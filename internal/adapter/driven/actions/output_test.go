package actions_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/solfmtbot/internal/adapter/driven/actions"
	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// parseOutputs splits a step output file into the "changed" line and the
// heredoc block carried by the "files" output.
func parseOutputs(t *testing.T, content string) (changed string, files []string) {
	t.Helper()

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3, "expected changed line plus files heredoc")

	changed = lines[0]

	require.True(t, strings.HasPrefix(lines[1], "files<<ghadelimiter_"), "files output uses a heredoc delimiter")
	delimiter := strings.TrimPrefix(lines[1], "files<<")
	require.Equal(t, delimiter, lines[len(lines)-1], "heredoc is terminated by the same delimiter")

	return changed, lines[2 : len(lines)-1]
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	set := model.ChangeSet{"contracts/Vault.sol", "contracts/Token.sol"}

	require.NoError(t, actions.WriteOutput(path, true, set))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	changed, files := parseOutputs(t, string(data))
	assert.Equal(t, "changed=true", changed)
	assert.Equal(t, []string{"contracts/Vault.sol", "contracts/Token.sol"}, files)
}

func TestWriteOutput_EmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")

	require.NoError(t, actions.WriteOutput(path, false, model.ChangeSet{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	changed, files := parseOutputs(t, string(data))
	assert.Equal(t, "changed=false", changed)
	assert.Empty(t, files)
}

func TestWriteOutput_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, []byte("earlier=1\n"), 0o644))

	require.NoError(t, actions.WriteOutput(path, true, model.ChangeSet{"A.sol"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "earlier=1\n"), "outputs from prior steps are preserved")
	assert.Contains(t, content, "changed=true\n")
	assert.Contains(t, content, "A.sol\n")
}

func TestWriteOutput_NoPathConfigured(t *testing.T) {
	assert.NoError(t, actions.WriteOutput("", true, model.ChangeSet{"A.sol"}))
}

func TestWriteOutput_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "output")

	err := actions.WriteOutput(path, true, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step output file")
}
