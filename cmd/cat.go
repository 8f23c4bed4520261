package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pst-ndb/pkg/app"
	"github.com/deploymenttheory/go-pst-ndb/pkg/app/inspect"
)

var catNodeID uint32

var catCmd = &cobra.Command{
	Use:   "cat [pst-file]",
	Short: "Print the flattened data tree bytes backing a node id",
	Long: `Resolve a node id through the node b-tree, flatten its data
tree (recursing through any intermediate blocks), decode it with the
file's codec, and print the resulting bytes.

Examples:
  pstndb cat archive.pst --node 0x21 > payload.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCat(args[0])
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
	catCmd.Flags().Uint32Var(&catNodeID, "node", 0, "node id to resolve (decimal or 0x-prefixed hex)")
	catCmd.MarkFlagRequired("node")
}

func runCat(path string) error {
	ctx := app.NewContext()
	ctx.OutputFormat = GetOutputFormat()
	ctx.Verbose = GetVerbose()
	ctx.Quiet = GetQuiet()

	resp, err := inspect.HandleCat(ctx, &inspect.CatRequest{Path: path, NodeID: catNodeID})
	if err != nil {
		return err
	}
	return inspect.FormatCat(resp, ctx.OutputFormat)
}
