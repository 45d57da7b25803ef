package commands

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/searchq/searchq/searchq/storage"
)

// NewRunCmd executes the composed query against the configured connection.
func NewRunCmd(cfgPath *string, logger func() zerolog.Logger) *cobra.Command {
	var (
		model          string
		text           string
		sorts          []string
		threshold      float64
		entireText     bool
		entireTextOnly bool
		page           int
		perPage        int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the composed search query and print result rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(*cfgPath)
			if err != nil {
				return err
			}
			m, err := project.Model(model)
			if err != nil {
				return err
			}
			conn, err := project.ActiveConnection()
			if err != nil {
				return err
			}

			q, err := composeQuery(m, text, parseSorts(sorts), threshold,
				cmd.Flags().Changed("threshold"), entireText, entireTextOnly)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := storage.Open(ctx, conn.Driver, conn.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := storage.NewRunner(db, logger())
			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")

			if cmd.Flags().Changed("page") || cmd.Flags().Changed("per-page") {
				result, err := runner.Paginate(ctx, q, page, perPage)
				if err != nil {
					return err
				}
				return out.Encode(result)
			}

			rows, err := runner.Query(ctx, q)
			if err != nil {
				return err
			}
			return out.Encode(rows)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "configured model name (required)")
	cmd.Flags().StringVarP(&text, "query", "q", "", "free-text search query")
	cmd.Flags().StringArrayVarP(&sorts, "sort", "s", nil, "sort column:direction (repeatable)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "relevance threshold override")
	cmd.Flags().BoolVar(&entireText, "entire-text", false, "add whole-phrase match tiers")
	cmd.Flags().BoolVar(&entireTextOnly, "entire-text-only", false, "match the whole phrase only")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 15, "rows per page")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}
