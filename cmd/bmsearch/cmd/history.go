package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/corey/bmsearch/internal/app"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClear bool
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.IntVarP(&historyLimit, "limit", "n", 20, "Show at most N runs (0 = all)")
	f.BoolVar(&historyClear, "clear", false, "Delete all recorded runs")
	f.BoolVar(&historyJSON, "json", false, "Print runs as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(app.Config{ProjectRoot: projectRoot()})
	if err != nil {
		return err
	}
	defer a.Close()

	if historyClear {
		if err := a.ClearHistory(); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	}

	runs, err := a.RecentRuns(historyLimit)
	if err != nil {
		return err
	}
	if historyJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	if len(runs) == 0 {
		fmt.Println("no searches recorded")
		return nil
	}
	useColor := resolveColor(a.Settings.Color)
	for _, r := range runs {
		fmt.Print(formatRun(r, useColor))
	}
	return nil
}
