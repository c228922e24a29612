package forge

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// foundryConfigName is the conventional location of the style artifact.
const foundryConfigName = "foundry.toml"

// foundryConfig mirrors the slice of foundry.toml the formatter cares
// about. Unknown tables and keys are ignored.
type foundryConfig struct {
	Fmt struct {
		TabWidth   int `toml:"tab_width"`
		LineLength int `toml:"line_length"`
	} `toml:"fmt"`
}

// LoadStyle resolves the formatting profile for the project at repoDir.
// stylePath overrides the artifact location; when empty the conventional
// repoDir/foundry.toml is used. A missing default artifact yields the
// built-in profile, but an explicitly named artifact must exist.
func LoadStyle(repoDir, stylePath string) (model.StyleProfile, error) {
	explicit := stylePath != ""
	if !explicit {
		stylePath = filepath.Join(repoDir, foundryConfigName)
	}

	data, err := os.ReadFile(stylePath)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no style configuration found, using defaults", "path", stylePath)
			return model.DefaultStyle(), nil
		}
		return model.StyleProfile{}, fmt.Errorf("reading style configuration %s: %w", stylePath, err)
	}

	var cfg foundryConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return model.StyleProfile{}, fmt.Errorf("parsing style configuration %s: %w", stylePath, err)
	}

	style := model.DefaultStyle()
	style.SourcePath = stylePath
	if cfg.Fmt.TabWidth > 0 {
		style.TabWidth = cfg.Fmt.TabWidth
	}
	if cfg.Fmt.LineLength > 0 {
		style.LineLength = cfg.Fmt.LineLength
	}

	slog.Debug("style configuration loaded",
		"path", stylePath,
		"tab_width", style.TabWidth,
		"line_length", style.LineLength,
	)
	return style, nil
}
