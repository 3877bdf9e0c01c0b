package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/jcleanup/internal/edit"
	"github.com/gnolang/jcleanup/internal/java"
	tt "github.com/gnolang/jcleanup/internal/types"
)

// Engine manages the rewrite process.
type Engine struct {
	ignoredRules map[string]bool
	ignoredPaths []string
	rules        map[string]LintRule

	index  *java.Index
	mode   edit.Mode
	cache  *Cache
	logger *zap.Logger

	watchMu    sync.Mutex
	watcher    *fsnotify.Watcher
	isWatching bool
	done       chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithIndex sets the project type index used to resolve names.
func WithIndex(index *java.Index) Option {
	return func(e *Engine) { e.index = index }
}

// WithMode sets how overlapping edits are applied.
func WithMode(mode edit.Mode) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithCache enables the on-disk result cache.
func WithCache(cache *Cache) Option {
	return func(e *Engine) { e.cache = cache }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new engine with the default rules adjusted by rules.
func NewEngine(rules map[string]tt.ConfigRule, opts ...Option) (*Engine, error) {
	engine := &Engine{
		ignoredRules: make(map[string]bool),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}
	return engine, nil
}

type ruleConstructor func() LintRule

type ruleMap map[string]ruleConstructor

var allRuleConstructors = ruleMap{
	"instanceof-pattern": NewInstanceofPatternRule,
}

// RuleNames lists every known rule, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(allRuleConstructors))
	for name := range allRuleConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultSeverity returns the severity a rule has when the configuration does
// not mention it, or SeverityOff for an unknown rule.
func DefaultSeverity(name string) tt.Severity {
	newRuleCstr, ok := allRuleConstructors[name]
	if !ok {
		return tt.SeverityOff
	}
	return newRuleCstr().Severity()
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	e.rules = make(map[string]LintRule)
	e.registerDefaultRules()

	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				return fmt.Errorf("unknown rule %q", key)
			}
			r = newRuleCstr()
			e.rules[key] = r
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
		}
		r.SetSeverity(rule.Severity)
	}
	return nil
}

func (e *Engine) registerDefaultRules() {
	for key, newRuleCstr := range allRuleConstructors {
		newRule := newRuleCstr()
		if newRule.Severity() != tt.SeverityOff {
			e.rules[key] = newRule
		}
	}
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// activeRules returns the enabled rules in name order.
func (e *Engine) activeRules() []LintRule {
	active := make([]LintRule, 0, len(e.rules))
	for name, rule := range e.rules {
		if !e.ignoredRules[name] {
			active = append(active, rule)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name() < active[j].Name() })
	return active
}

// Result is the outcome of running the engine on one file.
type Result struct {
	Filename string
	Source   []byte
	Updated  string
	Changed  bool
	Issues   []tt.Issue
}

// Run applies all rules to the given file.
func (e *Engine) Run(filename string) (*Result, error) {
	if e.isIgnoredPath(filename) {
		e.log().Debug("skipping ignored path", zap.String("file", filename))
		return &Result{Filename: filename}, nil
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	if e.cache != nil {
		if entry, ok := e.cache.Get(filename, e.settingsKey()); ok {
			e.log().Debug("cache hit", zap.String("file", filename))
			res := &Result{Filename: filename, Source: source, Updated: string(source), Issues: entry.Issues}
			if entry.Changed {
				res.Updated = entry.Updated
				res.Changed = true
			}
			return res, nil
		}
	}

	res, err := e.RunSource(filename, source)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, e.settingsKey(), res); err != nil {
			e.log().Warn("failed to cache result", zap.String("file", filename), zap.Error(err))
		}
	}
	return res, nil
}

// RunSource applies all rules to source. Each rule sees the output of the
// previous one, so issue positions refer to the text the reporting rule saw.
func (e *Engine) RunSource(filename string, source []byte) (*Result, error) {
	res := &Result{Filename: filename, Source: source, Updated: string(source)}

	current := source
	for _, rule := range e.activeRules() {
		unit, err := java.Parse(current)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", displayName(filename), err)
		}
		java.Resolve(unit, e.index)

		updated, issues, err := rule.Check(newSourceFile(filename, current, unit, e.mode))
		if err != nil {
			return nil, fmt.Errorf("rule %s failed on %s: %w", rule.Name(), displayName(filename), err)
		}
		res.Issues = append(res.Issues, issues...)
		current = []byte(updated)
	}

	res.Updated = string(current)
	res.Changed = res.Updated != string(source)
	e.log().Debug("processed file",
		zap.String("file", filename),
		zap.Int("issues", len(res.Issues)),
		zap.Bool("changed", res.Changed))
	return res, nil
}

// settingsKey summarizes everything besides the file that shapes a result:
// the active rules and their severities, the edit mode and the type index.
func (e *Engine) settingsKey() string {
	hash := sha256.New()
	for _, rule := range e.activeRules() {
		fmt.Fprintf(hash, "rule=%s:%s\x00", rule.Name(), rule.Severity())
	}
	fmt.Fprintf(hash, "mode=%s\x00", e.mode)
	fmt.Fprintf(hash, "index=%s\x00", e.index.Fingerprint())
	return hex.EncodeToString(hash.Sum(nil))
}

func (e *Engine) log() *zap.Logger {
	if e.logger == nil {
		return zap.NewNop()
	}
	return e.logger
}

// Close writes the cache to disk, if one is configured.
func (e *Engine) Close() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Save()
}

func displayName(filename string) string {
	if filename == "" {
		return "<source>"
	}
	return filename
}

// IgnoreRule disables a rule by name.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath skips files matching pattern: a glob matched against the whole
// path or its base name, or a directory prefix.
func (e *Engine) IgnorePath(pattern string) {
	if pattern = strings.TrimSpace(pattern); pattern != "" {
		e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(pattern))
	}
}

func (e *Engine) isIgnoredPath(path string) bool {
	path = filepath.Clean(path)
	for _, pattern := range e.ignoredPaths {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
		if strings.HasPrefix(path, pattern+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}

// NewSourceCode splits content into lines.
func NewSourceCode(content []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(content), "\n")}
}
