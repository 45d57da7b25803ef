package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRenderCmd prints the composed SQL and bindings without executing.
func NewRenderCmd(cfgPath *string) *cobra.Command {
	var (
		model          string
		text           string
		sorts          []string
		threshold      float64
		entireText     bool
		entireTextOnly bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the composed search query without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(*cfgPath)
			if err != nil {
				return err
			}
			m, err := project.Model(model)
			if err != nil {
				return err
			}

			q, err := composeQuery(m, text, parseSorts(sorts), threshold,
				cmd.Flags().Changed("threshold"), entireText, entireTextOnly)
			if err != nil {
				return err
			}

			stmt, bindings := q.ToSQL()
			fmt.Fprintln(cmd.OutOrStdout(), stmt)
			for i, b := range bindings {
				fmt.Fprintf(cmd.OutOrStdout(), "  [%d] %v\n", i+1, b)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "configured model name (required)")
	cmd.Flags().StringVarP(&text, "query", "q", "", "free-text search query")
	cmd.Flags().StringArrayVarP(&sorts, "sort", "s", nil, "sort column:direction (repeatable)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "relevance threshold override")
	cmd.Flags().BoolVar(&entireText, "entire-text", false, "add whole-phrase match tiers")
	cmd.Flags().BoolVar(&entireTextOnly, "entire-text-only", false, "match the whole phrase only")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}
