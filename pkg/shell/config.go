package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"src.nush.dev/pkg/fsutil"
)

// Names of line editors.
const (
	EditorPrompt = "prompt"
	EditorLiner  = "liner"
	EditorBasic  = "basic"
)

// Config keeps the content of the config file.
type Config struct {
	// One of EditorPrompt, EditorLiner and EditorBasic. The basic editor is
	// always used when stdin is not a terminal.
	Editor string `yaml:"editor"`
	// The prompt. Occurrences of {cwd} are replaced with the abbreviated
	// working directory.
	Prompt string `yaml:"prompt"`
	// Path of the history database. Empty means the default path.
	HistoryDB string `yaml:"history_db"`
	// Path of the rc file. Empty means the default path.
	RC string `yaml:"rc"`
	// Whether to source the rc file again when it changes.
	WatchRC bool `yaml:"watch_rc"`
	// Time limit of custom completions, like "200ms". Zero means no limit.
	CompletionBudget time.Duration `yaml:"completion_budget"`
}

// DefaultConfig returns the configuration used when there is no config file.
func DefaultConfig() *Config {
	return &Config{
		Editor:           EditorPrompt,
		Prompt:           "{cwd}> ",
		CompletionBudget: 500 * time.Millisecond,
	}
}

// LoadConfig reads the config file at path. Values missing from the file
// keep their defaults. A missing file is not an error if mustExist is false.
func LoadConfig(path string, mustExist bool) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := decodeConfig(f, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	switch cfg.Editor {
	case EditorPrompt, EditorLiner, EditorBasic:
	default:
		return fmt.Errorf("unknown editor %q", cfg.Editor)
	}
	if cfg.CompletionBudget < 0 {
		return fmt.Errorf("negative completion_budget %v", cfg.CompletionBudget)
	}
	cfg.HistoryDB = fsutil.ExpandPath(cfg.HistoryDB)
	cfg.RC = fsutil.ExpandPath(cfg.RC)
	return nil
}

func (cfg *Config) prompt() string {
	return strings.ReplaceAll(cfg.Prompt, "{cwd}", fsutil.Getwd())
}
