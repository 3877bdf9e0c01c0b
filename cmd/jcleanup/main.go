package main

import (
	"fmt"
	"os"

	"github.com/gnolang/jcleanup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !cmd.IsSilent(err) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
