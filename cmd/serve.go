package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jdehlin/aigent/internal/chat"
	"github.com/jdehlin/aigent/internal/process"
	"github.com/jdehlin/aigent/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway daemon",
	Long:  `Run the LLM gateway daemon in the foreground, exposing dispatch and conversation endpoints over HTTP.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	setupLogging(verbose)

	cfg := cfgMgr.Get()

	color.Green("Starting %s v%s...", AppName, Version)
	logger.Info("Starting gateway daemon",
		"host", cfg.Host,
		"port", cfg.Port,
		"settings", cfgMgr.GetPath(),
	)

	procMgr := process.NewManager(baseDir)
	if err := procMgr.WritePID(); err != nil {
		return err
	}
	defer procMgr.CleanupPID()

	store := chat.NewStore(baseDir)
	srv := server.New(cfgMgr, store, Version, logger)

	return srv.Start()
}
