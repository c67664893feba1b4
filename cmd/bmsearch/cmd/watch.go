package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/corey/bmsearch/internal/app"
	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/spf13/cobra"
)

var (
	watchAlphabet  string
	watchNoHistory bool
	watchColor     string
)

var watchCmd = &cobra.Command{
	Use:   "watch <pattern> <file> [file ...]",
	Short: "Search files again whenever they change",
	Long:  "Searches each file once, then re-searches a file each time it is written, until interrupted.",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&watchAlphabet, "alphabet", "", "Restrict input to an alphabet: bytes, ascii, dna")
	f.BoolVar(&watchNoHistory, "no-history", false, "Do not record searches")
	f.StringVar(&watchColor, "color", "", "Color output: auto, always, never")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	settings, err := loadSettings(root)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("alphabet") {
		a, err := boyermoore.AlphabetByName(watchAlphabet)
		if err != nil {
			return err
		}
		settings.Alphabet = a
	}
	if cmd.Flags().Changed("color") {
		if err := app.ValidateColor(watchColor); err != nil {
			return err
		}
		settings.Color = watchColor
	}

	a, err := openSearchApp(app.Config{ProjectRoot: root, Settings: settings, NoHistory: watchNoHistory})
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.Compile([]byte(args[0]))
	if err != nil {
		return err
	}

	useColor := resolveColor(settings.Color)
	var mu sync.Mutex
	report := func(out *app.Outcome, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fmt.Printf("[%s] [warning] %v\n", time.Now().Format(time.RFC3339), err)
			return
		}
		fmt.Print(formatWatchLine(time.Now(), out, useColor))
	}

	w, err := a.Watch(m, args[1:], report)
	if err != nil {
		return err
	}
	defer w.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println()
	return nil
}
