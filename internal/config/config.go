// Package config loads application configuration from environment variables
// and an optional project-local settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ProjectFileName is the optional per-repository settings file, looked up in
// the repository root.
const ProjectFileName = ".solfmtbot.yml"

// Defaults applied when neither the project file nor the environment
// overrides a setting.
const (
	DefaultPattern       = ".sol"
	DefaultRemote        = "origin"
	DefaultBotName       = "solfmtbot[bot]"
	DefaultBotEmail      = "solfmtbot[bot]@users.noreply.github.com"
	DefaultCommitMessage = "style: apply forge fmt"
)

// Config holds the application configuration. Precedence is defaults, then
// the project file, then environment variables.
type Config struct {
	// GitHubToken authenticates API writes (PR comments). Optional; without
	// it the pipeline still formats and pushes but skips notifications.
	GitHubToken string

	// Pattern is the file suffix selecting candidate files.
	Pattern string

	// Remote is the git remote pushed to after a formatting commit.
	Remote string

	// BotName and BotEmail form the committer identity for formatting commits.
	BotName  string
	BotEmail string

	// CommitMessage is a text/template body for formatting commits, rendered
	// with {{.Count}} and {{.Files}}.
	CommitMessage string

	// Actions runtime context, empty outside a workflow run.
	Repository string
	EventName  string
	EventPath  string
	RefName    string
	OutputPath string

	// RunID correlates all log lines of one pipeline invocation. Taken from
	// GITHUB_RUN_ID under Actions, generated otherwise.
	RunID string
}

// HasToken returns true when a GitHub API token is configured. Used by the
// composition root to decide whether PR notifications are possible.
func (c *Config) HasToken() bool {
	return c.GitHubToken != ""
}

// fileConfig mirrors the project settings file.
type fileConfig struct {
	Pattern       string `yaml:"pattern"`
	Remote        string `yaml:"remote"`
	CommitMessage string `yaml:"commit_message"`
	Bot           struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"bot"`
}

// Load reads configuration for the repository at repoDir and returns a
// validated Config. A .env file in the working directory is applied to the
// environment first if present. GitHub Actions variables (GITHUB_TOKEN,
// GITHUB_REPOSITORY, GITHUB_EVENT_NAME, GITHUB_EVENT_PATH, GITHUB_REF_NAME,
// GITHUB_RUN_ID, GITHUB_OUTPUT) are all optional; SOLFMTBOT_* variables
// override individual settings.
func Load(repoDir string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env file")
	}

	cfg := &Config{
		Pattern:       DefaultPattern,
		Remote:        DefaultRemote,
		BotName:       DefaultBotName,
		BotEmail:      DefaultBotEmail,
		CommitMessage: DefaultCommitMessage,
	}

	if err := applyProjectFile(cfg, filepath.Join(repoDir, ProjectFileName)); err != nil {
		return nil, err
	}

	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	if v, ok := os.LookupEnv("SOLFMTBOT_GITHUB_TOKEN"); ok {
		cfg.GitHubToken = v
	}

	if v, ok := os.LookupEnv("SOLFMTBOT_PATTERN"); ok {
		cfg.Pattern = v
	}
	if v, ok := os.LookupEnv("SOLFMTBOT_REMOTE"); ok {
		cfg.Remote = v
	}
	if v, ok := os.LookupEnv("SOLFMTBOT_BOT_NAME"); ok {
		cfg.BotName = v
	}
	if v, ok := os.LookupEnv("SOLFMTBOT_BOT_EMAIL"); ok {
		cfg.BotEmail = v
	}
	if v, ok := os.LookupEnv("SOLFMTBOT_COMMIT_MESSAGE"); ok {
		cfg.CommitMessage = v
	}

	cfg.Repository = os.Getenv("GITHUB_REPOSITORY")
	cfg.EventName = os.Getenv("GITHUB_EVENT_NAME")
	cfg.EventPath = os.Getenv("GITHUB_EVENT_PATH")
	cfg.RefName = os.Getenv("GITHUB_REF_NAME")
	cfg.OutputPath = os.Getenv("GITHUB_OUTPUT")

	cfg.RunID = os.Getenv("GITHUB_RUN_ID")
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyProjectFile overlays settings from the project file onto cfg. A
// missing file is fine; a malformed one is an error.
func applyProjectFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading project file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing project file %s: %w", path, err)
	}

	if fc.Pattern != "" {
		cfg.Pattern = fc.Pattern
	}
	if fc.Remote != "" {
		cfg.Remote = fc.Remote
	}
	if fc.CommitMessage != "" {
		cfg.CommitMessage = fc.CommitMessage
	}
	if fc.Bot.Name != "" {
		cfg.BotName = fc.Bot.Name
	}
	if fc.Bot.Email != "" {
		cfg.BotEmail = fc.Bot.Email
	}

	slog.Debug("project file applied", "path", path)
	return nil
}

func validate(cfg *Config) error {
	if cfg.Pattern == "" {
		return fmt.Errorf("file pattern must not be empty")
	}
	if cfg.Remote == "" {
		return fmt.Errorf("git remote must not be empty")
	}
	if cfg.BotName == "" || cfg.BotEmail == "" {
		return fmt.Errorf("bot identity must have both name and email")
	}
	if cfg.CommitMessage == "" {
		return fmt.Errorf("commit message must not be empty")
	}
	return nil
}
