package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pst-ndb/pkg/app"
	"github.com/deploymenttheory/go-pst-ndb/pkg/app/inspect"
)

var infoCmd = &cobra.Command{
	Use:   "info [pst-file]",
	Short: "Print a file's header summary",
	Long: `Print the width variant, file size, codec, allocation map status,
and b-tree root offsets recorded in a PST file's header.

Examples:
  pstndb info archive.pst
  pstndb info archive.pst -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(path string) error {
	ctx := app.NewContext()
	ctx.OutputFormat = GetOutputFormat()
	ctx.Verbose = GetVerbose()
	ctx.Quiet = GetQuiet()

	resp, err := inspect.HandleInfo(ctx, &inspect.InfoRequest{Path: path})
	if err != nil {
		return err
	}
	return inspect.FormatInfo(resp, ctx.OutputFormat)
}
