package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/simlog/simlog-go/pkg/simlog/formats"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the built-in log formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tFIELDS\tPROGRESS")
		for _, name := range formats.Names() {
			f, err := formats.ByName(name)
			if err != nil {
				return err
			}
			progress := "no"
			if f.ProgressField != "" {
				progress = "yes"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", f.Name, len(f.Fields), progress)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
