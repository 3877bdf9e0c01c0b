// Package cleanup is the entry point for running the rewrite engine over a
// project: it loads the configuration, indexes the project's types and
// processes files and directories in parallel.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/jcleanup/internal"
	"github.com/gnolang/jcleanup/internal/edit"
	tt "github.com/gnolang/jcleanup/internal/types"
)

// DefaultConfigFile is the configuration file looked up by default.
const DefaultConfigFile = ".jcleanup.yaml"

// patternMatchingLevel is the first Java release with pattern matching for instanceof.
const patternMatchingLevel = 16

// Engine is the part of internal.Engine the processing functions rely on.
type Engine interface {
	Run(filePath string) (*internal.Result, error)
	RunSource(filename string, source []byte) (*internal.Result, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// Config represents the configuration file.
type Config struct {
	Name  string                   `yaml:"name"`
	Rules map[string]tt.ConfigRule `yaml:"rules"`

	// Atomic drops a whole rewrite when any of its edits clashes with
	// another. Unset means true.
	Atomic *bool `yaml:"atomic,omitempty"`

	// Source is the Java release of the code base, such as "17" or "1.8".
	// Rules needing a newer release are disabled.
	Source string `yaml:"source,omitempty"`

	// Profile is an optional Eclipse cleanup profile gating the rules.
	Profile     string   `yaml:"profile,omitempty"`
	CacheDir    string   `yaml:"cache_dir,omitempty"`
	Workers     int      `yaml:"workers,omitempty"`
	IgnorePaths []string `yaml:"ignore_paths,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Name:  "jcleanup",
		Rules: map[string]tt.ConfigRule{},
	}
}

// Mode returns the edit mode selected by Atomic.
func (c Config) Mode() edit.Mode {
	if c.Atomic != nil && !*c.Atomic {
		return edit.Permissive
	}
	return edit.Atomic
}

// WorkerCount returns the number of files processed in parallel.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// LoadConfig reads the configuration file. A missing file yields DefaultConfig.
func LoadConfig(configurationPath string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(configurationPath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("failed to parse %s: %w", configurationPath, err)
	}
	if config.Rules == nil {
		config.Rules = map[string]tt.ConfigRule{}
	}
	return config, nil
}

// New loads the configuration, indexes the Java types under rootDir and
// builds the engine. Relative profile and cache paths are taken from rootDir.
func New(ctx context.Context, logger *zap.Logger, rootDir, configurationPath string) (*internal.Engine, Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, config, err
	}

	index, err := BuildIndex(ctx, logger, []string{rootDir}, config.WorkerCount())
	if err != nil {
		return nil, config, err
	}
	logger.Debug("indexed project types", zap.String("root", rootDir), zap.Int("types", index.Len()))

	opts := []internal.Option{
		internal.WithIndex(index),
		internal.WithMode(config.Mode()),
		internal.WithLogger(logger),
	}
	if config.CacheDir != "" {
		deps := []string{configurationPath}
		if config.Profile != "" {
			deps = append(deps, resolvePath(rootDir, config.Profile))
		}
		cache, err := internal.NewCache(resolvePath(rootDir, config.CacheDir), deps...)
		if err != nil {
			return nil, config, err
		}
		opts = append(opts, internal.WithCache(cache))
	}

	engine, err := internal.NewEngine(config.Rules, opts...)
	if err != nil {
		return nil, config, err
	}

	for _, path := range config.IgnorePaths {
		engine.IgnorePath(path)
	}

	if config.Profile != "" {
		profile, err := LoadProfile(resolvePath(rootDir, config.Profile))
		if err != nil {
			return nil, config, err
		}
		for _, rule := range profile.DisabledRules() {
			logger.Info("rule disabled by cleanup profile", zap.String("rule", rule))
			engine.IgnoreRule(rule)
		}
	}

	if config.Source != "" {
		level, err := ParseSourceLevel(config.Source)
		if err != nil {
			return nil, config, err
		}
		if level < patternMatchingLevel {
			logger.Warn("source level predates pattern matching for instanceof",
				zap.String("source", config.Source))
			engine.IgnoreRule("instanceof-pattern")
		}
	}

	return engine, config, nil
}

// ParseSourceLevel turns a Java release ("1.8", "11", "21") into its major number.
func ParseSourceLevel(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "1.")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	level, err := strconv.Atoi(s)
	if err != nil || level <= 0 {
		return 0, fmt.Errorf("invalid source level %q", s)
	}
	return level, nil
}

func resolvePath(rootDir, path string) string {
	if filepath.IsAbs(path) || rootDir == "" {
		return path
	}
	return filepath.Join(rootDir, path)
}
