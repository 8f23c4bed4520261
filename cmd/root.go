package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global output flags
	verbose      bool
	quiet        bool
	outputFormat string
	cfgFile      string
)

var rootCmd = &cobra.Command{
	Use:   "pstndb",
	Short: "Inspect and repair the Node Database layer of Personal Storage Table files",
	Long: `pstndb is a read-only and repair command-line tool for the Node
Database (NDB) layer of Microsoft Personal Storage Table (.pst) files:
the paged binary layout, the node and block persistent B-trees, and
the allocation-map crash-recovery structures built on top of them.

Commands:
  info         Print a file's header summary
  verify       Walk both b-trees checking page CRCs and structure
  dump-btree   List every leaf entry of the node or block b-tree
  cat          Print the flattened data tree bytes backing a node id
  rebuild      Rebuild an invalid allocation map from the b-trees`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pstndb.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

// initConfig reads an optional config file and environment variables,
// letting defaults for the global output flags be set outside the
// command line without requiring one.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".pstndb")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("PSTNDB")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// GetVerbose returns the verbose flag value.
func GetVerbose() bool {
	return viper.GetBool("verbose")
}

// GetQuiet returns the quiet flag value.
func GetQuiet() bool {
	return viper.GetBool("quiet")
}

// GetOutputFormat returns the output format.
func GetOutputFormat() string {
	return viper.GetString("output")
}
