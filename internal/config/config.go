// Package config loads and validates the docpublish configuration. All
// external-interface literals (publishing branch, commit message, docs
// subdirectory, build command) are defined here so the published contract is
// auditable in one place.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	pErrors "git.home.luguber.info/inful/docpublish/internal/errors"
)

// Defaults for the publishing contract. Changing these changes the commits
// docpublish produces, so tooling that inspects the published branch depends
// on them.
const (
	DefaultBranch        = "gh-pages"
	DefaultCommitMessage = "Automatic-ish rustdoc update"
	DefaultDocsSubdir    = "doc"
	DefaultOutputDir     = "target/doc"
)

// DefaultBuildCommand is the documentation build command run when none is configured.
var DefaultBuildCommand = []string{"cargo", "doc"}

// Config represents the application configuration
type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Publish PublishConfig `yaml:"publish"`
	Daemon  DaemonConfig  `yaml:"daemon,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Events  EventsConfig  `yaml:"events,omitempty"`
}

// BuildConfig describes the external documentation build step.
type BuildConfig struct {
	Command   []string `yaml:"command,omitempty"`    // argv, run in the repository directory
	OutputDir string   `yaml:"output_dir,omitempty"` // where the build tool writes the docs tree
}

// PublishConfig describes where and how the docs tree is published.
type PublishConfig struct {
	Branch        string      `yaml:"branch,omitempty"`
	CommitMessage string      `yaml:"commit_message,omitempty"`
	DocsSubdir    string      `yaml:"docs_subdir,omitempty"`
	RepoDir       string      `yaml:"repo_dir,omitempty"` // repository whose remotes are resolved
	Landing       string      `yaml:"landing,omitempty"`  // optional markdown file rendered to index.html
	Auth          *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Type     string `yaml:"type"` // "none", "ssh", "token", "basic"
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
	KeyPath  string `yaml:"key_path,omitempty"`
}

// DaemonConfig controls continuous publishing mode.
type DaemonConfig struct {
	Watch    []string      `yaml:"watch,omitempty"`    // paths watched for changes
	Debounce time.Duration `yaml:"debounce,omitempty"` // quiet period after a change burst
	Interval time.Duration `yaml:"interval,omitempty"` // periodic publish interval (0 disables)
}

// HistoryConfig controls the publish run journal. An empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint in daemon mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Listen  string `yaml:"listen,omitempty"`
}

// EventsConfig controls NATS publish-event notifications in daemon mode.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Default returns a configuration with all publishing defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified file. A missing file is not an
// error: docpublish runs with pure defaults, matching its zero-configuration
// origins. Environment variables in the YAML content are expanded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, pErrors.Wrap(err, pErrors.CategoryConfig, pErrors.SeverityFatal, "failed to read config file")
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, pErrors.Wrap(err, pErrors.CategoryConfig, pErrors.SeverityFatal, "failed to unmarshal config")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Build.Command) == 0 {
		c.Build.Command = append([]string(nil), DefaultBuildCommand...)
	}
	if c.Build.OutputDir == "" {
		c.Build.OutputDir = DefaultOutputDir
	}
	if c.Publish.Branch == "" {
		c.Publish.Branch = DefaultBranch
	}
	if c.Publish.CommitMessage == "" {
		c.Publish.CommitMessage = DefaultCommitMessage
	}
	if c.Publish.DocsSubdir == "" {
		c.Publish.DocsSubdir = DefaultDocsSubdir
	}
	if c.Publish.RepoDir == "" {
		c.Publish.RepoDir = "."
	}
	if c.Daemon.Debounce == 0 {
		c.Daemon.Debounce = 2 * time.Second
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9477"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "docpublish.runs"
	}
}

// Validate checks invariants that would otherwise surface as confusing git or
// filesystem failures deep in the workflow.
func (c *Config) Validate() error {
	if c.Publish.Branch == "" {
		return pErrors.New(pErrors.CategoryValidation, pErrors.SeverityFatal, "publish.branch must not be empty")
	}
	if c.Publish.DocsSubdir == "" {
		return pErrors.New(pErrors.CategoryValidation, pErrors.SeverityFatal, "publish.docs_subdir must not be empty")
	}
	if filepath.IsAbs(c.Publish.DocsSubdir) {
		return pErrors.New(pErrors.CategoryValidation, pErrors.SeverityFatal,
			"publish.docs_subdir must be relative to the clone root").
			WithContext("docs_subdir", c.Publish.DocsSubdir)
	}
	cleaned := filepath.Clean(c.Publish.DocsSubdir)
	if cleaned == ".." || len(cleaned) >= 3 && cleaned[:3] == ".."+string(filepath.Separator) {
		return pErrors.New(pErrors.CategoryValidation, pErrors.SeverityFatal,
			"publish.docs_subdir must not escape the clone root").
			WithContext("docs_subdir", c.Publish.DocsSubdir)
	}
	if len(c.Build.Command) == 0 {
		return pErrors.New(pErrors.CategoryValidation, pErrors.SeverityFatal, "build.command must not be empty")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return pErrors.New(pErrors.CategoryValidation, pErrors.SeverityFatal, "events.url is required when events are enabled")
	}
	return nil
}

const exampleConfig = `# docpublish configuration
build:
  # Documentation build command, run in the repository directory.
  command: [cargo, doc]
  # Directory the build command writes the documentation tree to.
  output_dir: target/doc

publish:
  branch: gh-pages
  commit_message: Automatic-ish rustdoc update
  docs_subdir: doc
  # repo_dir: .
  # landing: README.md
  # auth:
  #   type: ssh
  #   key_path: ~/.ssh/id_ed25519

# daemon:
#   watch: [src]
#   debounce: 2s
#   interval: 1h

# history:
#   path: .docpublish/history.db

# metrics:
#   enabled: true
#   listen: ":9477"

# events:
#   enabled: true
#   url: nats://localhost:4222
#   subject: docpublish.runs
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return pErrors.New(pErrors.CategoryConfig, pErrors.SeverityFatal,
			fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return pErrors.Wrap(err, pErrors.CategoryFileSystem, pErrors.SeverityFatal, "failed to write config file")
	}
	return nil
}
