package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/jcleanup/internal"
	tt "github.com/gnolang/jcleanup/internal/types"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules and their default severity",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range internal.RuleNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", name, defaultRuleConfig(name).Severity)
		}
	},
}

func defaultRuleConfig(name string) tt.ConfigRule {
	return tt.ConfigRule{Severity: internal.DefaultSeverity(name)}
}
