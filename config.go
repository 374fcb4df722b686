package verstat

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	configDir           = ".verstat"
	configFileName      = "settings.toml"
	localConfigFileName = "settings.local.toml"
)

// DefaultUpstreamBranch is the upstream branch compared against when
// neither the config file nor the -u flag overrides it.
const DefaultUpstreamBranch = "main"

// Config holds optional per-repository settings.
type Config struct {
	// UpstreamBranch overrides the default upstream branch name.
	UpstreamBranch string `toml:"upstream_branch"`
	// ExcludeWorktrees lists doublestar patterns; matching worktree
	// paths are dropped from the report.
	ExcludeWorktrees []string `toml:"exclude_worktrees"`
}

// ConfigResult holds a loaded config plus non-fatal warnings.
type ConfigResult struct {
	Config   *Config
	Warnings []string
}

// LoadConfig loads settings.toml and settings.local.toml from dir.
// Missing files are not an error. Local settings override project
// settings per field. Unknown keys produce warnings, never errors.
func LoadConfig(dir string) (*ConfigResult, error) {
	result := &ConfigResult{Config: &Config{}}

	projCfg, warnings, err := loadConfigFile(filepath.Join(dir, configDir, configFileName))
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	if projCfg != nil {
		merge(result.Config, projCfg)
	}

	localCfg, warnings, err := loadConfigFile(filepath.Join(dir, configDir, localConfigFileName))
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	if localCfg != nil {
		merge(result.Config, localCfg)
	}

	return result, nil
}

// merge overlays non-empty fields of src onto dst.
func merge(dst, src *Config) {
	if src.UpstreamBranch != "" {
		dst.UpstreamBranch = src.UpstreamBranch
	}
	if len(src.ExcludeWorktrees) > 0 {
		dst.ExcludeWorktrees = src.ExcludeWorktrees
	}
}

func loadConfigFile(path string) (*Config, []string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, nil
	}

	var config Config
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown key %q in %s", key, path))
	}

	return &config, warnings, nil
}
