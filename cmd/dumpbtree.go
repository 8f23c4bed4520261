package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pst-ndb/pkg/app"
	"github.com/deploymenttheory/go-pst-ndb/pkg/app/inspect"
)

var dumpBTreeTree string

var dumpBTreeCmd = &cobra.Command{
	Use:   "dump-btree [pst-file]",
	Short: "List every leaf entry of the node or block b-tree",
	Long: `List every leaf entry of one persistent b-tree, in left-to-right
leaf order.

Examples:
  pstndb dump-btree archive.pst --tree node
  pstndb dump-btree archive.pst --tree block -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDumpBTree(args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpBTreeCmd)
	dumpBTreeCmd.Flags().StringVar(&dumpBTreeTree, "tree", "node", `which b-tree to dump ("node" or "block")`)
}

func runDumpBTree(path string) error {
	ctx := app.NewContext()
	ctx.OutputFormat = GetOutputFormat()
	ctx.Verbose = GetVerbose()
	ctx.Quiet = GetQuiet()

	resp, err := inspect.HandleDumpBTree(ctx, &inspect.DumpBTreeRequest{Path: path, Tree: dumpBTreeTree})
	if err != nil {
		return err
	}
	return inspect.FormatDumpBTree(resp, ctx.OutputFormat)
}
