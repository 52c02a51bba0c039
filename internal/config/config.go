package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultThreads is the object download concurrency when none is requested.
	DefaultThreads = 10
	// DefaultUserAgent identifies the client on every request.
	DefaultUserAgent = "gitsalvage/1.0"
	// DefaultSettingsFile is picked up from the working directory when present.
	DefaultSettingsFile = "gitsalvage.yaml"
)

// Target describes one salvage run: where to read from, where to write to,
// and how wide the object download pool may go. Immutable once constructed.
type Target struct {
	BaseURL   string
	OutputDir string
	Threads   int
}

// NewTarget normalizes raw CLI input into a Target. Trailing slashes on the
// base URL are dropped so request paths join cleanly, and the thread count
// is clamped to at least one.
func NewTarget(rawURL, outputDir string, threads int) Target {
	base := strings.TrimRight(rawURL, "/")
	if threads < 1 {
		threads = 1
	}
	return Target{BaseURL: base, OutputDir: outputDir, Threads: threads}
}

// Settings represents the optional YAML settings file
type Settings struct {
	UserAgent   string   `yaml:"user_agent,omitempty"`
	ExtraPaths  []string `yaml:"extra_paths,omitempty"`
	MetricsAddr string   `yaml:"metrics_addr,omitempty"`
	Report      *bool    `yaml:"report,omitempty"`
}

// ReportEnabled reports whether the run report should be persisted.
// Defaults to true when the settings file does not say otherwise.
func (s *Settings) ReportEnabled() bool {
	return s.Report == nil || *s.Report
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() *Settings {
	return &Settings{UserAgent: DefaultUserAgent}
}

// Load loads settings from the specified file. An empty path falls back to
// the default settings file when one exists in the working directory, and
// to pure defaults otherwise. An explicitly named file must exist.
func Load(path string) (*Settings, error) {
	if path == "" {
		if _, err := os.Stat(DefaultSettingsFile); os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		path = DefaultSettingsFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("settings file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var settings Settings
	if err := yaml.Unmarshal([]byte(expandedData), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	// Apply defaults
	if settings.UserAgent == "" {
		settings.UserAgent = DefaultUserAgent
	}

	// Extra paths extend the bootstrap catalog, so they must live under the
	// same metadata directory the catalog covers.
	for _, p := range settings.ExtraPaths {
		if !strings.HasPrefix(p, ".git/") || strings.TrimPrefix(p, ".git/") == "" {
			return nil, fmt.Errorf("invalid extra path %q: must name a file under .git/", p)
		}
	}

	return &settings, nil
}
