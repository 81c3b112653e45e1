package main

import (
	"fmt"
	"os"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitecrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitecrawl",
		Short: "Single-domain web crawler that saves pages as HTML or JSON",
		Long: `sitecrawl crawls a website breadth-first starting from a seed URL.

Only pages on the host of the seed URL are visited, each at most once.
Every page is saved either as the raw HTML response or as a JSON record
with its title, paragraphs, images, documents and internal links.

Every run is recorded in a local SQLite database; use 'sitecrawl history'
to inspect past runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write diagnostic logs as JSON")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(), "Directory of the crawl history database")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// persistentBool reads a boolean flag from the command or the root command.
func persistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// dbDir returns the history database directory from the --db-dir flag.
func dbDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil || dir == "" {
		return config.XDGDataDir()
	}
	return dir
}
