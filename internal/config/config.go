// Package config loads the service configuration from a YAML file with
// environment variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Sentinels are the control substrings roles embed in their text output.
// They are configuration rather than hard-coded literals; earlier revisions
// of the system used a different task-complete marker.
type Sentinels struct {
	Delegate      string `yaml:"delegate"`
	SubtaskDone   string `yaml:"subtask_done"`
	Terminate     string `yaml:"terminate"`
	DirectEditTag string `yaml:"direct_edit_tag"`
}

// DefaultSentinels returns the canonical sentinel set.
func DefaultSentinels() Sentinels {
	return Sentinels{
		Delegate:      "DELEGATE_TO_PLANNER",
		SubtaskDone:   "SUBTASK_DONE",
		Terminate:     "TERMINATE",
		DirectEditTag: "[DIRECT_EDIT]",
	}
}

// Oracle configures the text-generation collaborator.
type Oracle struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"` // usually left empty and read from env
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Run configures one pipeline run.
type Run struct {
	MaxMessages         int `yaml:"max_messages"`          // termination cap on history length
	PreviewReloadEvery  int `yaml:"preview_reload_every"`  // reload_preview every N tool calls
	CheckpointThoughts  int `yaml:"checkpoint_thoughts"`   // checkpoint every N thought records
	MaxToolRounds       int `yaml:"max_tool_rounds"`       // per executor invocation
	KeepAliveSeconds    int `yaml:"keep_alive_seconds"`    // stream idle filler interval
	DefaultCmdTimeoutMs int `yaml:"default_cmd_timeout_ms"`
	SlowCmdTimeoutMs    int `yaml:"slow_cmd_timeout_ms"`
}

// Config is the top-level service configuration.
type Config struct {
	ListenAddr    string    `yaml:"listen_addr"`
	ProjectsDir   string    `yaml:"projects_dir"`
	DatabasePath  string    `yaml:"database_path"`
	ScreenshotURL string    `yaml:"screenshot_url"`
	Oracle        Oracle    `yaml:"oracle"`
	Sentinels     Sentinels `yaml:"sentinels"`
	Run           Run       `yaml:"run"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ListenAddr:   ":8080",
		ProjectsDir:  "./projects",
		DatabasePath: "./tandem.db",
		Oracle: Oracle{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Sentinels: DefaultSentinels(),
		Run: Run{
			MaxMessages:         50,
			PreviewReloadEvery:  10,
			CheckpointThoughts:  3,
			MaxToolRounds:       25,
			KeepAliveSeconds:    15,
			DefaultCmdTimeoutMs: 15000,
			SlowCmdTimeoutMs:    30000,
		},
	}
}

// Load reads the config file at path, applying defaults for missing fields
// and environment overrides afterwards. A missing file is not an error; the
// defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Zero-valued sentinels would disable turn-taking entirely.
	if cfg.Sentinels.Delegate == "" {
		cfg.Sentinels = DefaultSentinels()
	}
	if cfg.Run.MaxMessages <= 0 {
		cfg.Run.MaxMessages = 50
	}
	if cfg.Run.PreviewReloadEvery <= 0 {
		cfg.Run.PreviewReloadEvery = 10
	}
	if cfg.Run.CheckpointThoughts <= 0 {
		cfg.Run.CheckpointThoughts = 3
	}
	if cfg.Run.KeepAliveSeconds <= 0 {
		cfg.Run.KeepAliveSeconds = 15
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TANDEM_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TANDEM_PROJECTS_DIR"); v != "" {
		cfg.ProjectsDir = v
	}
	if v := os.Getenv("TANDEM_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("TANDEM_ORACLE_PROVIDER"); v != "" {
		cfg.Oracle.Provider = v
	}
	if v := os.Getenv("TANDEM_ORACLE_MODEL"); v != "" {
		cfg.Oracle.Model = v
	}
	// Provider-native env vars (OPENAI_API_KEY etc.) are handled by the
	// oracle adapter itself; this override is for explicit configuration.
	if v := os.Getenv("TANDEM_ORACLE_API_KEY"); v != "" {
		cfg.Oracle.APIKey = v
	}
}

// KeepAlive returns the stream idle interval as a duration.
func (r Run) KeepAlive() time.Duration {
	return time.Duration(r.KeepAliveSeconds) * time.Second
}
