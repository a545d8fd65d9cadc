package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/chat"
)

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List stored conversations",
	RunE:  runConversationsList,
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsDelete,
}

func init() {
	conversationsCmd.AddCommand(conversationsDeleteCmd)
}

func runConversationsList(_ *cobra.Command, _ []string) error {
	store := chat.NewStore(baseDir)

	conversations, err := store.List()
	if err != nil {
		return err
	}
	if len(conversations) == 0 {
		color.Yellow("No conversations yet")
		return nil
	}

	for _, c := range conversations {
		color.Blue("%s", c.Title)
		fmt.Printf("  id: %s\n", c.ID)
		fmt.Printf("  updated: %s\n", c.UpdatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("  turns: %d\n", len(c.Turns))
		if names := providerList(&c); names != "" {
			fmt.Printf("  providers: %s\n", names)
		}
		fmt.Println()
	}

	return nil
}

// providerList renders the providers that have answered in a conversation, in
// catalog order.
func providerList(c *chat.Conversation) string {
	used := c.UsedProviders()

	names := make([]string, 0, len(used))
	for _, p := range catalog.All() {
		if used[p] {
			names = append(names, p.DisplayName())
		}
	}

	return strings.Join(names, ", ")
}

func runConversationsDelete(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid conversation id %q: %w", args[0], err)
	}

	store := chat.NewStore(baseDir)
	if err := store.Delete(id); err != nil {
		return err
	}

	color.Green("Conversation deleted")
	return nil
}
