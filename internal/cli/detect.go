package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cigen-dev/cigen/internal/detect"
)

var detectCmd = &cobra.Command{
	Use:   "detect [dir]",
	Short: "Detect the project type of a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		res, err := detect.NewRegistry().Detect(dir)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "preset:   %s\n", res.PresetID)
		if res.Language != "" {
			fmt.Fprintf(w, "language: %s\n", res.Language)
		}
		if res.Version != "" {
			fmt.Fprintf(w, "version:  %s\n", res.Version)
		}
		fmt.Fprintf(w, "matched:  %s\n", res.Reason)
		return nil
	},
}
