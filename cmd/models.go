package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jdehlin/aigent/internal/catalog"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List providers and their selectable models",
	Run:   runModels,
}

func runModels(_ *cobra.Command, _ []string) {
	for _, p := range catalog.All() {
		color.Blue("%s:", p.DisplayName())
		for _, name := range catalog.Models(p) {
			marker := " "
			if name == catalog.DefaultModel(p) {
				marker = "*"
			}
			fmt.Printf("  %s %s\n", marker, name)
		}
		fmt.Println()
	}
	fmt.Println("* default model, used by fan-out dispatch")
}
