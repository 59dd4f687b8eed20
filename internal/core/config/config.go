// Package config provides the devctl configuration loader.
// Config is loaded by merging ~/.devctl/config.toml → devctl.toml → DEVCTL_* env vars.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// FileName is the project config file discovered by walking up from the CWD.
const FileName = "devctl.toml"

// Defaults contains factory-default values applied before any config file is loaded.
var Defaults = map[string]any{
	"bench.tool":  "asv",
	"bench.dir":   "benchmarks",
	"bench.extra_path": []string{
		"/usr/lib/ccache", "/usr/lib/f90cache",
		"/usr/local/lib/ccache", "/usr/local/lib/f90cache",
	},
	"bench.thread_vars":  []string{"OPENBLAS_NUM_THREADS", "MKL_NUM_THREADS"},
	"bench.threshold":    0.05,
	"bench.mem_fraction": 0.7,
	"bench.install_url":  "https://airspeed-velocity.github.io/asv/",
	"bench.exclusive":    true,
	"build.command":      "meson compile -C build",
	"build.dir":          ".",
	"log.level":          "info",
	"log.format":         "text",
}

// ─────────────────────────────────────────────────────────────────────────────
// Config types
// ─────────────────────────────────────────────────────────────────────────────

// Config is the fully-decoded project configuration.
type Config struct {
	Project ProjectConfig  `mapstructure:"project" json:"project" yaml:"project" toml:"project"`
	Bench   BenchConfig    `mapstructure:"bench"   json:"bench"   yaml:"bench"   toml:"bench"`
	Build   BuildConfig    `mapstructure:"build"   json:"build"   yaml:"build"   toml:"build"`
	Log     LogConfig      `mapstructure:"log"     json:"log"     yaml:"log"     toml:"log"`
	Tool    map[string]any `mapstructure:"tool"    json:"tool"    yaml:"tool"    toml:"tool"`

	// Root is the project root: the directory holding the project config
	// file, or empty when none was found.
	Root string `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
	// File is the project config file that was merged, if any.
	File string `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}

// ProjectConfig holds project-level metadata.
type ProjectConfig struct {
	Name string `mapstructure:"name" json:"name" yaml:"name" toml:"name"`
}

// BenchConfig controls the benchmark runner.
type BenchConfig struct {
	Tool        string            `mapstructure:"tool"         json:"tool"         yaml:"tool"         toml:"tool"`
	Dir         string            `mapstructure:"dir"          json:"dir"          yaml:"dir"          toml:"dir"`          // relative to project root
	ExtraPath   []string          `mapstructure:"extra_path"   json:"extra_path"   yaml:"extra_path"   toml:"extra_path"`   // prepended to PATH
	ThreadVars  []string          `mapstructure:"thread_vars"  json:"thread_vars"  yaml:"thread_vars"  toml:"thread_vars"`  // pinned to 1
	Env         map[string]string `mapstructure:"env"          json:"env"          yaml:"env"          toml:"env"`          // extra pins
	Threshold   float64           `mapstructure:"threshold"    json:"threshold"    yaml:"threshold"    toml:"threshold"`    // relative regression, 0.05 = 5%
	MemFraction float64           `mapstructure:"mem_fraction" json:"mem_fraction" yaml:"mem_fraction" toml:"mem_fraction"` // 0 disables the limit
	InstallURL  string            `mapstructure:"install_url"  json:"install_url"  yaml:"install_url"  toml:"install_url"`
	Exclusive   bool              `mapstructure:"exclusive"    json:"exclusive"    yaml:"exclusive"    toml:"exclusive"`
}

// BuildConfig controls the wrapped build command.
type BuildConfig struct {
	Command string `mapstructure:"command" json:"command" yaml:"command" toml:"command"` // shell words
	Dir     string `mapstructure:"dir"     json:"dir"     yaml:"dir"     toml:"dir"`     // relative to project root
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `mapstructure:"level"  json:"level"  yaml:"level"  toml:"level"`  // debug | info | warn | error
	File   string `mapstructure:"file"   json:"file"   yaml:"file"   toml:"file"`
	Format string `mapstructure:"format" json:"format" yaml:"format" toml:"format"` // text | json | pretty
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Load discovers and loads the configuration, walking up directories to find
// devctl.toml, then merging it over the global config and under environment
// variables. explicitPath, when set, must exist.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	// Environment variable binding: DEVCTL_BENCH_TOOL → bench.tool
	v.SetEnvPrefix("DEVCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var merged []string
	globalCfg := filepath.Join(Home(), "config.toml")
	if _, err := os.Stat(globalCfg); err == nil {
		if err := mergeFile(v, globalCfg); err != nil {
			return nil, fmt.Errorf("read global config: %w", err)
		}
		merged = append(merged, globalCfg)
	}

	projectFile := explicitPath
	if projectFile == "" {
		if path, err := discoverProjectConfig(); err == nil {
			projectFile = path
		}
	}
	if projectFile != "" {
		if err := mergeFile(v, projectFile); err != nil {
			return nil, fmt.Errorf("read project config %q: %w", projectFile, err)
		}
		merged = append(merged, projectFile)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := decodeKeyedTables(&cfg, merged); err != nil {
		return nil, err
	}

	if projectFile != "" {
		abs, err := filepath.Abs(projectFile)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", projectFile, err)
		}
		cfg.File = abs
		cfg.Root = filepath.Dir(abs)
	}

	expandEnvInConfig(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// ToolSection returns the free-form [tool] table, never nil.
func (c *Config) ToolSection() map[string]any {
	if c.Tool == nil {
		return map[string]any{}
	}
	return c.Tool
}

// Validate performs semantic validation on the loaded config.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Bench.Tool) == "" {
		return fmt.Errorf("bench.tool must not be empty")
	}
	if cfg.Bench.Threshold <= 0 || cfg.Bench.Threshold > 1 {
		return fmt.Errorf("bench.threshold must be in (0, 1], got %v", cfg.Bench.Threshold)
	}
	if cfg.Bench.MemFraction < 0 || cfg.Bench.MemFraction > 1 {
		return fmt.Errorf("bench.mem_fraction must be in [0, 1], got %v", cfg.Bench.MemFraction)
	}
	for _, name := range cfg.Bench.ThreadVars {
		if name == "" || strings.Contains(name, "=") {
			return fmt.Errorf("bench.thread_vars: invalid variable name %q", name)
		}
	}
	switch cfg.Log.Format {
	case "", "text", "json", "pretty":
	default:
		return fmt.Errorf("log.format must be text, json or pretty, got %q", cfg.Log.Format)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

func mergeFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return v.MergeConfig(bytes.NewReader(data))
}

// keyedTables are the tables whose keys are user data: environment variable
// names and tool settings. viper folds every key to lower case, so these are
// decoded from the files directly.
type keyedTables struct {
	Bench struct {
		Env map[string]any `toml:"env"`
	} `toml:"bench"`
	Tool map[string]any `toml:"tool"`
}

// decodeKeyedTables sets cfg.Bench.Env and cfg.Tool from files, later files
// overriding earlier ones key by key.
func decodeKeyedTables(cfg *Config, files []string) error {
	var (
		env  map[string]string
		tool map[string]any
	)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %q: %w", path, err)
		}
		var t keyedTables
		if err := toml.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("decode %q: %w", path, err)
		}
		for k, val := range t.Bench.Env {
			if env == nil {
				env = make(map[string]string)
			}
			env[k] = fmt.Sprint(val)
		}
		for k, val := range t.Tool {
			if tool == nil {
				tool = make(map[string]any)
			}
			tool[k] = val
		}
	}
	cfg.Bench.Env = env
	cfg.Tool = tool
	return nil
}

// discoverProjectConfig walks up from the CWD looking for devctl.toml.
func discoverProjectConfig() (string, error) {
	start, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := start
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found (searched up from %s)", FileName, start)
}

// expandEnvInConfig resolves ${VAR} placeholders in path-like values.
func expandEnvInConfig(cfg *Config) {
	for i, p := range cfg.Bench.ExtraPath {
		cfg.Bench.ExtraPath[i] = os.ExpandEnv(p)
	}
	for k, v := range cfg.Bench.Env {
		cfg.Bench.Env[k] = os.ExpandEnv(v)
	}
	cfg.Log.File = os.ExpandEnv(cfg.Log.File)
}

// Home returns the devctl home directory (~/.devctl).
func Home() string {
	if h := os.Getenv("DEVCTL_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".devctl"
	}
	return filepath.Join(home, ".devctl")
}

// ─────────────────────────────────────────────────────────────────────────────
// Starter file
// ─────────────────────────────────────────────────────────────────────────────

// starterFile is the document written by `devctl init`.
type starterFile struct {
	Project ProjectConfig     `toml:"project"`
	Bench   starterBench      `toml:"bench"`
	Build   BuildConfig       `toml:"build"`
	Tool    map[string]string `toml:"tool"`
}

type starterBench struct {
	Tool      string   `toml:"tool"`
	Dir       string   `toml:"dir"`
	Threshold float64  `toml:"threshold"`
	ExtraPath []string `toml:"extra_path"`
}

// Starter renders a commented devctl.toml for a project called name.
func Starter(name string) ([]byte, error) {
	doc := starterFile{
		Project: ProjectConfig{Name: name},
		Bench: starterBench{
			Tool:      Defaults["bench.tool"].(string),
			Dir:       Defaults["bench.dir"].(string),
			Threshold: Defaults["bench.threshold"].(float64),
			ExtraPath: Defaults["bench.extra_path"].([]string),
		},
		Build: BuildConfig{
			Command: Defaults["build.command"].(string),
			Dir:     Defaults["build.dir"].(string),
		},
		Tool: map[string]string{"package": name},
	}
	body, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render starter config: %w", err)
	}
	header := "# devctl.toml: project configuration for devctl\n" +
		"# Values here override ~/.devctl/config.toml; DEVCTL_* env vars override both.\n\n"
	return append([]byte(header), body...), nil
}
