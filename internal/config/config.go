// Package config handles cazdo configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

// PATEnvVar overrides the configured personal access token when set.
const PATEnvVar = "CAZDO_PAT"

// Config represents cazdo configuration.
type Config struct {
	AzureDevOps AzureDevOpsConfig `toml:"azure_devops"`
	Branches    BranchesConfig    `toml:"branches"`
	UI          UIConfig          `toml:"ui"`
}

// AzureDevOpsConfig contains connection settings for the work item API.
type AzureDevOpsConfig struct {
	// Organization URL, e.g. https://dev.azure.com/my-org
	OrganizationURL string `toml:"organization_url"`

	// Personal access token with work item read scope.
	// The CAZDO_PAT environment variable takes precedence.
	PAT string `toml:"pat"`
}

// BranchesConfig contains branch handling settings.
type BranchesConfig struct {
	// Glob patterns for branches that must never be deleted and are
	// hidden from the list by default. Empty means main/master.
	Protected []string `toml:"protected"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Width of the branch list pane as a percentage of the terminal
	DetailWidthPercent int `toml:"branch_pane_percent"`

	// Seconds a status message stays visible in the footer
	StatusSeconds int `toml:"status_seconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		AzureDevOps: AzureDevOpsConfig{
			OrganizationURL: "",
			PAT:             "",
		},
		Branches: BranchesConfig{
			Protected: []string{"main", "master"},
		},
		UI: UIConfig{
			DetailWidthPercent: 30,
			StatusSeconds:      4,
		},
	}
}

// ResolvePAT returns the personal access token to use, preferring the
// CAZDO_PAT environment variable over the config file.
func (c *Config) ResolvePAT() string {
	if pat := os.Getenv(PATEnvVar); pat != "" {
		return pat
	}
	return c.AzureDevOps.PAT
}

// ConfigPath returns the path to the config file.
// Uses ~/.config/cazdo/config.toml (XDG style) on all Unix systems.
func ConfigPath() string {
	// Respect XDG_CONFIG_HOME if set
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cazdo", "config.toml")
	}
	// Default to ~/.config on Unix (including macOS)
	home := os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", "cazdo", "config.toml")
	}
	// Fallback to os.UserConfigDir() for Windows
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "cazdo", "config.toml")
	}
	return filepath.Join(configDir, "cazdo", "config.toml")
}

// IsFirstRun returns true if no config file exists.
func IsFirstRun() bool {
	_, err := os.Stat(ConfigPath())
	return os.IsNotExist(err)
}

// Load loads configuration from the config file.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, err
	}

	// Unmarshal directly into default config.
	// go-toml/v2 only overwrites fields present in the TOML file,
	// preserving defaults for unspecified fields.
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Save saves configuration to the config file. A file lock guards
// against concurrent cazdo processes writing at the same time.
func Save(cfg *Config) error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return writeLocked(path, data)
}

// CreateDefaultConfigFile creates a default config file with comments.
func CreateDefaultConfigFile() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return writeLocked(path, []byte(generateDefaultConfigContent()))
}

func writeLocked(path string, data []byte) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking config file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	// 0600: the file may hold a PAT.
	return os.WriteFile(path, data, 0600)
}

// generateDefaultConfigContent generates a commented config file.
func generateDefaultConfigContent() string {
	var b strings.Builder
	cfg := DefaultConfig()

	b.WriteString("# Cazdo Configuration\n\n")

	b.WriteString("[azure_devops]\n")
	b.WriteString("# Organization URL, e.g. \"https://dev.azure.com/my-org\"\n")
	b.WriteString("organization_url = \"\"\n")
	b.WriteString("# Personal access token with work item read scope\n")
	b.WriteString("# The CAZDO_PAT environment variable takes precedence over this value\n")
	b.WriteString("pat = \"\"\n\n")

	b.WriteString("[branches]\n")
	b.WriteString("# Glob patterns for protected branches (never deleted, hidden by default)\n")
	fmt.Fprintf(&b, "protected = [%q, %q]\n\n", "main", "master")

	b.WriteString("[ui]\n")
	b.WriteString("# Width of the branch list pane as a percentage of the terminal\n")
	fmt.Fprintf(&b, "branch_pane_percent = %d\n", cfg.UI.DetailWidthPercent)
	b.WriteString("# Seconds a status message stays visible in the footer\n")
	fmt.Fprintf(&b, "status_seconds = %d\n", cfg.UI.StatusSeconds)

	return b.String()
}

// Validate validates the configuration and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.AzureDevOps.OrganizationURL == "" {
		warnings = append(warnings, "azure_devops.organization_url is not set")
	} else if !strings.HasPrefix(c.AzureDevOps.OrganizationURL, "https://") &&
		!strings.HasPrefix(c.AzureDevOps.OrganizationURL, "http://") {
		warnings = append(warnings, fmt.Sprintf("azure_devops.organization_url does not look like a URL: %s", c.AzureDevOps.OrganizationURL))
	}

	if c.ResolvePAT() == "" {
		warnings = append(warnings, fmt.Sprintf("no personal access token configured (set azure_devops.pat or %s)", PATEnvVar))
	}

	for _, p := range c.Branches.Protected {
		if strings.TrimSpace(p) == "" {
			warnings = append(warnings, "branches.protected contains an empty pattern")
		}
	}

	if c.UI.DetailWidthPercent < 10 || c.UI.DetailWidthPercent > 90 {
		warnings = append(warnings, fmt.Sprintf("ui.branch_pane_percent must be 10-90, got %d", c.UI.DetailWidthPercent))
	}
	if c.UI.StatusSeconds < 1 {
		warnings = append(warnings, fmt.Sprintf("ui.status_seconds must be at least 1, got %d", c.UI.StatusSeconds))
	}

	return warnings
}
