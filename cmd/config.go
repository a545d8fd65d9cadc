package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jdehlin/aigent/internal/catalog"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage API keys and system prompts",
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider> <api-key>",
	Short: "Store an API key for a provider",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSetKey,
}

var configDeleteKeyCmd = &cobra.Command{
	Use:   "delete-key <provider>",
	Short: "Remove a provider's API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigDeleteKey,
}

var configSetPromptCmd = &cobra.Command{
	Use:   "set-prompt <provider> <prompt>",
	Short: "Store a system prompt for a provider (empty prompt clears it)",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSetPrompt,
}

var configSetTavilyCmd = &cobra.Command{
	Use:   "set-tavily-key <api-key>",
	Short: "Store the Tavily key used for search fallback",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetTavily,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configDeleteKeyCmd)
	configCmd.AddCommand(configSetPromptCmd)
	configCmd.AddCommand(configSetTavilyCmd)
	configCmd.AddCommand(configShowCmd)
}

func resolveProvider(name string) (catalog.Provider, error) {
	for _, p := range catalog.All() {
		if strings.EqualFold(p.DisplayName(), name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (expected one of: %s)", name, providerNames())
}

func providerNames() string {
	names := make([]string, 0, len(catalog.All()))
	for _, p := range catalog.All() {
		names = append(names, p.DisplayName())
	}
	return strings.Join(names, ", ")
}

func runConfigSetKey(_ *cobra.Command, args []string) error {
	p, err := resolveProvider(args[0])
	if err != nil {
		return err
	}

	if err := cfgMgr.SetAPIKey(p, args[1]); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	color.Green("API key saved for %s", p.DisplayName())
	return nil
}

func runConfigDeleteKey(_ *cobra.Command, args []string) error {
	p, err := resolveProvider(args[0])
	if err != nil {
		return err
	}

	if err := cfgMgr.DeleteAPIKey(p); err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}

	color.Green("API key deleted for %s", p.DisplayName())
	return nil
}

func runConfigSetPrompt(_ *cobra.Command, args []string) error {
	p, err := resolveProvider(args[0])
	if err != nil {
		return err
	}

	if err := cfgMgr.SetSystemPrompt(p, args[1]); err != nil {
		return fmt.Errorf("failed to save system prompt: %w", err)
	}

	color.Green("System prompt saved for %s", p.DisplayName())
	return nil
}

func runConfigSetTavily(_ *cobra.Command, args []string) error {
	if err := cfgMgr.SetTavilyKey(args[0]); err != nil {
		return fmt.Errorf("failed to save Tavily key: %w", err)
	}

	color.Green("Tavily key saved")
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg := cfgMgr.Get()

	color.Blue("Current Configuration:")
	fmt.Printf("  %-15s: %s\n", "Host", cfg.Host)
	fmt.Printf("  %-15s: %d\n", "Port", cfg.Port)
	fmt.Printf("  %-15s: %s\n", "Auth Key", maskString(cfg.AuthKey))
	fmt.Printf("  %-15s: %s\n", "Settings Path", cfgMgr.GetPath())

	fmt.Println("\nProviders:")
	for _, p := range catalog.All() {
		key, _ := cfgMgr.APIKey(p)
		fmt.Printf("  - %s\n", p.DisplayName())
		fmt.Printf("    API Key: %s\n", maskString(key))
		if prompt := cfgMgr.SystemPrompt(p); prompt != "" {
			fmt.Printf("    System Prompt: %s\n", prompt)
		}
	}

	fmt.Printf("\n  %-15s: %s\n", "Tavily Key", maskString(cfgMgr.TavilyKey()))

	return nil
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
