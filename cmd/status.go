package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/process"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status and configured providers",
	Run:   runStatus,
}

func runStatus(_ *cobra.Command, _ []string) {
	procMgr := process.NewManager(baseDir)
	cfg := cfgMgr.Get()

	running := procMgr.IsRunning()
	pid := procMgr.ReadPID()

	color.Blue("Status for %s:", AppName)
	fmt.Printf("  %-15s: %v\n", "Running", running)
	if running {
		fmt.Printf("  %-15s: %d\n", "PID", pid)
	}
	fmt.Printf("  %-15s: http://%s:%d\n", "Endpoint", cfg.Host, cfg.Port)
	fmt.Printf("  %-15s: %s\n", "Settings Path", cfgMgr.GetPath())
	fmt.Printf("  %-15s: v%s\n", "Version", Version)

	fmt.Println("\nProviders:")
	for _, p := range catalog.All() {
		mark := color.RedString("no key")
		if cfgMgr.HasAPIKey(p) {
			mark = color.GreenString("configured")
		}
		fmt.Printf("  %-10s: %s\n", p.DisplayName(), mark)
	}

	if cfgMgr.TavilyKey() != "" {
		fmt.Printf("\n  %-10s: %s\n", "Tavily", color.GreenString("configured"))
	}
}
