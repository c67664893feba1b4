package cmd

import (
	"fmt"
	"os"

	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/corey/bmsearch/internal/domain/trace"
	"github.com/spf13/cobra"
)

// The built-in demonstration input.
const (
	demoText    = "AAAAAAB"
	demoPattern = "AB"
)

var demoCmd = &cobra.Command{
	Use:   "demo [text pattern]",
	Short: "Trace a search step by step",
	Long:  "Traces the search of AB in AAAAAAB, or of a given pattern in a given text.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("demo takes no arguments or exactly two (text pattern), got %d", len(args))
		}
		return nil
	},
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	text, pattern := []byte(demoText), []byte(demoPattern)
	if len(args) == 2 {
		text, pattern = []byte(args[0]), []byte(args[1])
	}

	m, err := boyermoore.Compile(pattern)
	if err != nil {
		return err
	}
	r := trace.NewRenderer(os.Stdout, text, pattern)
	r.Begin()
	res, err := m.Scan(text, r)
	if err != nil {
		return err
	}
	return r.End(res)
}
