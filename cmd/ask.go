package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/chat"
	"github.com/jdehlin/aigent/internal/gateway"
	"github.com/jdehlin/aigent/internal/transport"
	"github.com/jdehlin/aigent/internal/websearch"
)

var (
	askProvider     string
	askModel        string
	askAll          bool
	askImagePath    string
	askNoSearch     bool
	askConversation string
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a message to one provider, or fan out to all of them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askProvider, "provider", "p", "Anthropic", "provider to dispatch to")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "model display name (provider default when empty)")
	askCmd.Flags().BoolVarP(&askAll, "all", "a", false, "fan out to every configured provider")
	askCmd.Flags().StringVarP(&askImagePath, "image", "i", "", "path to an image to attach")
	askCmd.Flags().BoolVar(&askNoSearch, "no-search", false, "disable web-search augmentation")
	askCmd.Flags().StringVarP(&askConversation, "conversation", "c", "", "conversation id to continue, or \"new\"")
}

func runAsk(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	setupLogging(verbose)

	message := strings.Join(args, " ")

	var image []byte
	if askImagePath != "" {
		data, err := os.ReadFile(askImagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		image = data
	}

	registry := transport.NewRegistry()
	registry.Initialize()

	opts := []gateway.Option{}
	if !askNoSearch {
		opts = append(opts, gateway.WithSearcher(websearch.New(cfgMgr.TavilyKey, logger)))
	}
	gw := gateway.New(registry, cfgMgr, cfgMgr, logger, opts...)

	store := chat.NewStore(baseDir)
	conv, err := resolveConversation(store)
	if err != nil {
		return err
	}

	var turns []chat.Turn
	if conv != nil {
		turns = conv.Turns
	}

	ctx := context.Background()

	if askAll {
		return runAskAll(ctx, gw, store, conv, message, turns, image)
	}
	return runAskSingle(ctx, gw, store, conv, message, turns, image)
}

func resolveConversation(store *chat.Store) (*chat.Conversation, error) {
	switch askConversation {
	case "":
		return nil, nil
	case "new":
		c, err := store.Create()
		if err != nil {
			return nil, err
		}
		return &c, nil
	default:
		id, err := uuid.Parse(askConversation)
		if err != nil {
			return nil, fmt.Errorf("invalid conversation id %q: %w", askConversation, err)
		}
		c, err := store.Get(id)
		if err != nil {
			return nil, err
		}
		return &c, nil
	}
}

func runAskSingle(ctx context.Context, gw *gateway.Gateway, store *chat.Store, conv *chat.Conversation, message string, turns []chat.Turn, image []byte) error {
	p, err := resolveProvider(askProvider)
	if err != nil {
		return err
	}

	model := askModel
	if model == "" {
		model = catalog.DefaultModel(p)
	}

	text, err := gw.Send(ctx, message, p, model, turns, image)
	if err != nil {
		return err
	}

	fmt.Println(text)

	if conv != nil {
		conv.Append(chat.NewUserTurn(message, image))
		conv.Append(chat.NewAssistantTurn(text, p, model))
		if err := store.Update(*conv); err != nil {
			return fmt.Errorf("failed to save conversation: %w", err)
		}
		color.Cyan("\nConversation: %s", conv.ID)
	}

	return nil
}

func runAskAll(ctx context.Context, gw *gateway.Gateway, store *chat.Store, conv *chat.Conversation, message string, turns []chat.Turn, image []byte) error {
	results := gw.SendAll(ctx, message, turns, image)
	if len(results) == 0 {
		return fmt.Errorf("no providers configured; add a key with %q", AppName+" config set-key")
	}

	for _, r := range results {
		header := fmt.Sprintf("%s %s (%s)", r.Provider.Icon(), r.Provider.DisplayName(), r.Model)
		if r.Failed {
			color.Red("== %s ==", header)
		} else {
			color.Blue("== %s ==", header)
		}
		fmt.Println(r.Text)
		fmt.Println()
	}

	if conv != nil {
		conv.Append(chat.NewUserTurn(message, image))
		conv.Append(chat.NewFanOutTurn(results))
		if err := store.Update(*conv); err != nil {
			return fmt.Errorf("failed to save conversation: %w", err)
		}
		color.Cyan("Conversation: %s", conv.ID)
	}

	return nil
}
