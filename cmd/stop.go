package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jdehlin/aigent/internal/process"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the gateway daemon",
	RunE:  runStop,
}

func runStop(_ *cobra.Command, _ []string) error {
	procMgr := process.NewManager(baseDir)

	if !procMgr.IsRunning() {
		color.Yellow("Daemon is not running")
		return nil
	}

	if err := procMgr.Stop(); err != nil {
		return err
	}

	color.Green("Daemon stopped")
	return nil
}
