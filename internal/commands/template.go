package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"pagebuilder/internal/service"
)

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Browse the template gallery",
	}
	cmd.AddCommand(templateListCmd())
	return cmd
}

func templateListCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := appCtx.Templates.List(category)
			if jsonOutput {
				return printJSON(templates)
			}
			rows := make([][]string, 0, len(templates))
			for _, t := range templates {
				source := "custom"
				if t.Builtin {
					source = "builtin"
				}
				rows = append(rows, []string{t.ID, t.Name, t.Category, strconv.Itoa(len(t.Components)), source})
			}
			return printTable([]string{"ID", "NAME", "CATEGORY", "COMPONENTS", "SOURCE"}, rows)
		},
	}
	cmd.Flags().StringVar(&category, "category", service.CategoryAll, "template category")
	return cmd
}
