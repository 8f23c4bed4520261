package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pst-ndb/pkg/app"
	"github.com/deploymenttheory/go-pst-ndb/pkg/app/inspect"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [pst-file]",
	Short: "Rebuild an invalid allocation map from the b-trees",
	Long: `Rebuild a file's allocation map by walking both persistent
b-trees and marking every page they occupy as allocated, then writing
a fresh AMap/PMap/FMap/FPMap chain and marking the root valid.

This is a no-op if the file's allocation map is already valid.

Examples:
  pstndb rebuild archive.pst`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRebuild(args[0])
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(path string) error {
	ctx := app.NewContext()
	ctx.OutputFormat = GetOutputFormat()
	ctx.Verbose = GetVerbose()
	ctx.Quiet = GetQuiet()

	resp, err := inspect.HandleRebuild(ctx, &inspect.RebuildRequest{Path: path})
	if err != nil {
		return err
	}
	return inspect.FormatRebuild(resp, ctx.OutputFormat)
}
