package cleanup

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		disabled []string
	}{
		{
			name: "enabled",
			input: `<?xml version="1.0" encoding="UTF-8"?>
<profiles version="2">
  <profile kind="CleanUpProfile" name="Team">
    <setting id="cleanup.instanceof" value="true"/>
    <setting id="cleanup.format_source_code" value="false"/>
  </profile>
</profiles>`,
		},
		{
			name:     "disabled",
			input:    `<profiles><profile><setting id="cleanup.instanceof" value="false"/></profile></profiles>`,
			disabled: []string{"instanceof-pattern"},
		},
		{
			name:  "case insensitive value",
			input: `<profiles><setting id="cleanup.instanceof" value=" TRUE "/></profiles>`,
		},
		{
			name:     "missing setting",
			input:    `<profiles><profile name="empty"/></profiles>`,
			disabled: []string{"instanceof-pattern"},
		},
		{
			name:     "not a boolean",
			input:    `<profiles><setting id="cleanup.instanceof" value="yes"/></profiles>`,
			disabled: []string{"instanceof-pattern"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			profile, err := ParseProfile(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.disabled, profile.DisabledRules())
		})
	}
}

func TestParseProfileMalformed(t *testing.T) {
	t.Parallel()
	_, err := ParseProfile(strings.NewReader(`<profiles><setting id="x"`))
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"team.xml": `<profiles><setting id="cleanup.instanceof" value="true"/><setting id="other" value="42"/></profiles>`,
	})

	profile, err := LoadProfile(filepath.Join(dir, "team.xml"))
	require.NoError(t, err)
	assert.True(t, profile.Enabled("cleanup.instanceof"))
	assert.False(t, profile.Enabled("other"))
	assert.Equal(t, "42", profile.Settings["other"])

	_, err = LoadProfile(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}
