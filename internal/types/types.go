package types

import (
	"fmt"
	"strings"
)

// Severity is the level at which a rule reports its issues.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	}
	return "UNKNOWN"
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "off":
		return SeverityOff, nil
	}
	return SeverityError, fmt.Errorf("unknown severity %q", s)
}

// MarshalYAML writes the severity by name.
func (s Severity) MarshalYAML() (any, error) {
	return strings.ToLower(s.String()), nil
}

// UnmarshalYAML reads a severity name.
func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText lets severities appear by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText reads a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ConfigRule is the per-rule section of the configuration file.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}

// Position is a location in a source file. Line and Column are 1-based;
// Column counts bytes.
type Position struct {
	Filename string `json:"filename,omitempty"`
	Offset   int    `json:"offset"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Issue represents a rewrite opportunity found in the code base.
type Issue struct {
	Rule       string   `json:"rule"`
	Category   string   `json:"category"`
	Filename   string   `json:"filename"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Note       string   `json:"note,omitempty"`
	Start      Position `json:"start"`
	End        Position `json:"end"`
	Severity   Severity `json:"severity"`
}
