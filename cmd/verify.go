package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pst-ndb/pkg/app"
	"github.com/deploymenttheory/go-pst-ndb/pkg/app/inspect"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [pst-file]",
	Short: "Walk both b-trees checking page CRCs and structure",
	Long: `Walk every page of the node and block b-trees, verifying each
page's CRC and tail structure, collecting every failure found rather
than stopping at the first one.

Examples:
  pstndb verify archive.pst`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(args[0])
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(path string) error {
	ctx := app.NewContext()
	ctx.OutputFormat = GetOutputFormat()
	ctx.Verbose = GetVerbose()
	ctx.Quiet = GetQuiet()

	resp, err := inspect.HandleVerify(ctx, &inspect.VerifyRequest{Path: path})
	if err != nil {
		return err
	}
	if err := inspect.FormatVerify(resp, ctx.OutputFormat); err != nil {
		return err
	}
	if !resp.Valid() {
		return fmt.Errorf("verification found %d error(s)", len(resp.Errors))
	}
	return nil
}
