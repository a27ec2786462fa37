package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cigen-dev/cigen/internal/preset"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in pipeline presets",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for _, d := range preset.Builtin().List() {
			fmt.Fprintf(w, "%-14s %s\n", d.ID, d.Description)
		}
	},
}
