package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewModelsCmd lists the configured models and their search columns.
func NewModelsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(*cfgPath)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(project.Models))
			for name := range project.Models {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				def := project.Models[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s (table %s)\n", name, def.Table)

				cols := make([]string, 0, len(def.SearchColumns))
				for c := range def.SearchColumns {
					cols = append(cols, c)
				}
				sort.Strings(cols)
				for _, c := range cols {
					fmt.Fprintf(cmd.OutOrStdout(), "  search %s weight %g\n", c, def.SearchColumns[c])
				}
				for _, c := range def.SortColumns {
					fmt.Fprintf(cmd.OutOrStdout(), "  sort   %s\n", c)
				}
			}
			return nil
		},
	}
}
