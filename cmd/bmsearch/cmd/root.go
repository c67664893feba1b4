package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bmsearch",
	Short: "bmsearch: Boyer-Moore exact substring search",
	Long: "Finds every occurrence of a byte pattern using the bad-character and good-suffix rules,\n" +
		"and can trace each alignment step of the scan.",
	SilenceUsage: true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bmsearch: %v\n", err)
		os.Exit(2)
	}
	return dir
}

// Execute runs the root command. Errors that carry no exit code are
// printed here; exitError values have already been reported.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && ExitCode(err) < 0 {
		fmt.Fprintf(os.Stderr, "bmsearch: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(configCmd)
}
