package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/corey/bmsearch/internal/adapters/socket"
	"github.com/corey/bmsearch/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows resolved paths, effective settings, and daemon status. No daemon required.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)
	sockPath := socket.SocketPath(root)

	settings, err := app.LoadSettings(paths.Config)
	if err != nil {
		return err
	}

	client := socket.NewClient(sockPath)
	daemonStatus := fmt.Sprintf("%s✗ not running%s", colorYellow, colorReset)
	if client.Ping() {
		daemonStatus = fmt.Sprintf("%s✓ running%s", colorGreen, colorReset)
		if pid := paths.ReadPID(); pid > 0 {
			daemonStatus += fmt.Sprintf(" (pid %d)", pid)
		}
	}

	configStatus := "(defaults, file not found)"
	if _, err := os.Stat(paths.Config); err == nil {
		configStatus = ""
	}

	fmt.Printf("%s⚡ bmsearch config%s\n", colorBold, colorReset)
	fmt.Printf("  Project:    %s\n", filepath.Base(root))
	fmt.Printf("  Root:       %s\n", root)
	fmt.Printf("  DB:         %s\n", paths.DB)
	fmt.Printf("  Config:     %s %s\n", paths.Config, configStatus)
	fmt.Printf("  Socket:     %s\n", sockPath)
	fmt.Printf("  Daemon:     %s\n", daemonStatus)

	data, err := settings.YAML()
	if err != nil {
		return err
	}
	fmt.Printf("\n%sEffective settings%s\n", colorBold, colorReset)
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		fmt.Printf("  %s\n", line)
	}
	return nil
}
