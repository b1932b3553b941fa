package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/posterkit/posterkit/pkg/layout"
)

// layoutsCommand creates the layouts listing command.
func (c *CLI) layoutsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List available typography layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Layouts"))
			for _, t := range layout.Builtin().List() {
				printKeyValue(t.ID, t.Description)
			}
			printNextStep("Use a layout", "posterkit generate \"Paris\" --layout compact")
			return nil
		},
	}
}
