package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"archmap/internal/core/errors"
)

// Config holds all tunables for an analysis run.
type Config struct {
	Paths   PathsConfig   `toml:"paths"`
	Exclude ExcludeConfig `toml:"exclude"`
	Limits  LimitsConfig  `toml:"limits"`
	Smells  SmellsConfig  `toml:"smells"`
	Watch   WatchConfig   `toml:"watch"`
	History HistoryConfig `toml:"history"`
	Output  OutputConfig  `toml:"output"`
}

type PathsConfig struct {
	Root     string `toml:"root"`
	Output   string `toml:"output"`
	Markdown string `toml:"markdown"`
	Mermaid  string `toml:"mermaid"`
}

type ExcludeConfig struct {
	Dirs []string `toml:"dirs"`
}

type LimitsConfig struct {
	MaxNodes      int `toml:"max_nodes"`
	MaxFileSizeKB int `toml:"max_file_size_kb"`
	MaxDepth      int `toml:"max_depth"`
}

// SmellsConfig carries detection thresholds. Zero values are replaced by
// defaults during Load.
type SmellsConfig struct {
	Enabled              *bool   `toml:"enabled"`
	GodClassMembers      int     `toml:"god_class_members"`
	GodClassCoupling     int     `toml:"god_class_coupling"`
	HubCa                int     `toml:"hub_ca"`
	HubCe                int     `toml:"hub_ce"`
	UnstableInstability  float64 `toml:"unstable_instability"`
	UnstableCa           int     `toml:"unstable_ca"`
	ShotgunCa            int     `toml:"shotgun_ca"`
	FeatureEnvyCross     int     `toml:"feature_envy_cross"`
	HighComplexity       int     `toml:"high_complexity"`
	LongMethodLoc        int     `toml:"long_method_loc"`
	LongParamCount       int     `toml:"long_param_count"`
	LargeClassLoc        int     `toml:"large_class_loc"`
	LargeClassMethods    int     `toml:"large_class_methods"`
	LowCohesionLcom      float64 `toml:"low_cohesion_lcom"`
	LowCohesionMinMembers int    `toml:"low_cohesion_min_members"`
}

type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type OutputConfig struct {
	Title       string `toml:"title"`
	EmbedSource *bool  `toml:"embed_source"`
	Compact     bool   `toml:"compact"`
}

// DefaultExcludedDirs are directory names skipped during scanning.
var DefaultExcludedDirs = []string{
	"venv", ".venv", ".git", "__pycache__", ".pytest_cache",
	"node_modules", ".mypy_cache", ".idea", ".vscode", ".tox",
	".nox", "dist", "build", ".eggs", "htmlcov", ".coverage",
	".ruff_cache", "egg-info", ".cache", ".hypothesis",
}

// DefaultFileExtensions are the extensions shown in the directory tree.
var DefaultFileExtensions = []string{
	".py", ".json", ".csv", ".md", ".txt", ".yaml", ".yml",
	".toml", ".cfg", ".ini", ".sh", ".bat", ".rst",
}

// GroupPalette is the fixed color rotation for group assignment.
var GroupPalette = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#8B5CF6",
	"#EC4899", "#EF4444", "#06B6D4", "#14B8A6",
	"#6366F1", "#D946EF", "#84CC16", "#78716C",
}

// Load reads config from path, or returns defaults when path is empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeNotFound, "config file not readable")
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "config file not valid TOML")
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a ready-to-use configuration without touching disk.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Paths.Root == "" {
		c.Paths.Root = "."
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "architecture.json"
	}
	if len(c.Exclude.Dirs) == 0 {
		c.Exclude.Dirs = append([]string{}, DefaultExcludedDirs...)
	}
	if c.Limits.MaxNodes == 0 {
		c.Limits.MaxNodes = 100
	}
	if c.Limits.MaxFileSizeKB == 0 {
		c.Limits.MaxFileSizeKB = 200
	}
	if c.Limits.MaxDepth == 0 {
		c.Limits.MaxDepth = 50
	}
	if c.Watch.DebounceMS == 0 {
		c.Watch.DebounceMS = 500
	}
	if c.History.Path == "" {
		c.History.Path = ".archmap/history.db"
	}
	if c.Output.Title == "" {
		c.Output.Title = "Architecture"
	}
	if c.Output.EmbedSource == nil {
		t := true
		c.Output.EmbedSource = &t
	}
	if c.Smells.Enabled == nil {
		t := true
		c.Smells.Enabled = &t
	}
	c.Smells.applyDefaults()
}

func (s *SmellsConfig) applyDefaults() {
	if s.GodClassMembers == 0 {
		s.GodClassMembers = 8
	}
	if s.GodClassCoupling == 0 {
		s.GodClassCoupling = 4
	}
	if s.HubCa == 0 {
		s.HubCa = 4
	}
	if s.HubCe == 0 {
		s.HubCe = 4
	}
	if s.UnstableInstability == 0 {
		s.UnstableInstability = 0.8
	}
	if s.UnstableCa == 0 {
		s.UnstableCa = 3
	}
	if s.ShotgunCa == 0 {
		s.ShotgunCa = 5
	}
	if s.FeatureEnvyCross == 0 {
		s.FeatureEnvyCross = 3
	}
	if s.HighComplexity == 0 {
		s.HighComplexity = 15
	}
	if s.LongMethodLoc == 0 {
		s.LongMethodLoc = 80
	}
	if s.LongParamCount == 0 {
		s.LongParamCount = 7
	}
	if s.LargeClassLoc == 0 {
		s.LargeClassLoc = 300
	}
	if s.LargeClassMethods == 0 {
		s.LargeClassMethods = 12
	}
	if s.LowCohesionLcom == 0 {
		s.LowCohesionLcom = 0.7
	}
	if s.LowCohesionMinMembers == 0 {
		s.LowCohesionMinMembers = 3
	}
}

func (c *Config) validate() error {
	if c.Limits.MaxNodes < 1 {
		return errors.New(errors.CodeValidationError,
			fmt.Sprintf("limits.max_nodes must be positive, got %d", c.Limits.MaxNodes))
	}
	if c.Limits.MaxFileSizeKB < 1 {
		return errors.New(errors.CodeValidationError,
			fmt.Sprintf("limits.max_file_size_kb must be positive, got %d", c.Limits.MaxFileSizeKB))
	}
	if c.Limits.MaxDepth < 1 {
		return errors.New(errors.CodeValidationError,
			fmt.Sprintf("limits.max_depth must be positive, got %d", c.Limits.MaxDepth))
	}
	if c.Watch.DebounceMS < 0 {
		return errors.New(errors.CodeValidationError, "watch.debounce_ms must not be negative")
	}
	if c.Smells.UnstableInstability < 0 || c.Smells.UnstableInstability > 1 {
		return errors.New(errors.CodeValidationError, "smells.unstable_instability must be within [0,1]")
	}
	return nil
}

// EmbedSource reports whether source content should be embedded in the model.
func (c *Config) EmbedSource() bool {
	return c.Output.EmbedSource == nil || *c.Output.EmbedSource
}

// DetectSmells reports whether smell detection is enabled.
func (c *Config) DetectSmells() bool {
	return c.Smells.Enabled == nil || *c.Smells.Enabled
}
