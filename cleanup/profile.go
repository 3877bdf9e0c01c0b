package cleanup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ruleSettings maps rule names to the Eclipse cleanup setting that enables them.
var ruleSettings = map[string]string{
	"instanceof-pattern": "cleanup.instanceof",
}

// Profile holds the settings of an Eclipse cleanup profile.
type Profile struct {
	Settings map[string]string
}

// LoadProfile reads every <setting id="..." value="..."/> element of an
// Eclipse cleanup profile, wherever it is nested.
func LoadProfile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cleanup profile: %w", err)
	}
	defer f.Close()

	profile, err := ParseProfile(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cleanup profile %s: %w", path, err)
	}
	return profile, nil
}

// ParseProfile reads a cleanup profile from r.
func ParseProfile(r io.Reader) (*Profile, error) {
	profile := &Profile{Settings: make(map[string]string)}

	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "setting" {
			continue
		}
		var id, value string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "id":
				id = attr.Value
			case "value":
				value = attr.Value
			}
		}
		if id != "" {
			profile.Settings[id] = value
		}
	}
	return profile, nil
}

// Enabled reports whether setting id is present and true.
func (p *Profile) Enabled(id string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Settings[id]), "true")
}

// DisabledRules returns the rules whose enabling setting is not on.
func (p *Profile) DisabledRules() []string {
	var disabled []string
	for rule, id := range ruleSettings {
		if !p.Enabled(id) {
			disabled = append(disabled, rule)
		}
	}
	return disabled
}
