package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/imagegen"
)

var (
	imagineProvider string
	imagineAll      bool
	imagineOutDir   string
)

var imagineCmd = &cobra.Command{
	Use:   "imagine <prompt>",
	Short: "Generate an image from one provider, or fan out to all of them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImagine,
}

func init() {
	imagineCmd.Flags().StringVarP(&imagineProvider, "provider", "p", "OpenAI", "provider to generate with")
	imagineCmd.Flags().BoolVarP(&imagineAll, "all", "a", false, "generate with every configured provider")
	imagineCmd.Flags().StringVarP(&imagineOutDir, "output", "o", ".", "directory to write generated images to")
}

func runImagine(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	setupLogging(verbose)

	prompt := strings.Join(args, " ")
	service := imagegen.New(cfgMgr, logger)
	ctx := context.Background()

	if imagineAll {
		results := service.GenerateAll(ctx, prompt)
		if len(results) == 0 {
			return fmt.Errorf("no image providers configured; add a key with %q", AppName+" config set-key")
		}

		for _, r := range results {
			if r.Failed {
				color.Red("%s (%s): %s", r.Provider.DisplayName(), r.Model, r.Error)
				continue
			}
			path, err := writeImage(r.Provider, r.Image)
			if err != nil {
				return err
			}
			color.Green("%s (%s): %s", r.Provider.DisplayName(), r.Model, path)
		}
		return nil
	}

	p, err := resolveProvider(imagineProvider)
	if err != nil {
		return err
	}

	model, ok := imagegen.ModelName(p)
	if !ok {
		return fmt.Errorf("%s cannot generate images", p.DisplayName())
	}

	image, err := service.Generate(ctx, prompt, p)
	if err != nil {
		return err
	}

	path, err := writeImage(p, image)
	if err != nil {
		return err
	}

	color.Green("%s (%s): %s", p.DisplayName(), model, path)
	return nil
}

func writeImage(p catalog.Provider, image []byte) (string, error) {
	name := fmt.Sprintf("%s-%s-%d.png", AppName, strings.ToLower(p.DisplayName()), time.Now().Unix())
	path := filepath.Join(imagineOutDir, name)

	if err := os.WriteFile(path, image, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return path, nil
}
