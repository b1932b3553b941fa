package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/posterkit/posterkit/pkg/style"
)

// themesCommand creates the themes listing command.
func (c *CLI) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available color themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Themes"))
			for _, t := range style.Builtin().List() {
				printKeyValue(t.ID, t.Description)
			}
			printNextStep("Use a theme", "posterkit generate \"Paris\" --theme night")
			return nil
		},
	}
}
