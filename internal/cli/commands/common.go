package commands

import (
	"fmt"
	"strings"

	"github.com/searchq/searchq/internal/config"
	"github.com/searchq/searchq/searchq"
	"github.com/searchq/searchq/searchq/qb"
)

// loadProject resolves the config file: the explicit --config path, or
// searchq.yaml in the working directory.
func loadProject(cfgPath string) (*config.Project, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	p, err := config.LoadFromDir(".")
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("no %s found; pass --config", config.FileName)
	}
	return p, nil
}

// parseSorts parses repeated col:dir flags into sort requests. Direction
// defaults to asc; validation happens in the sort applier.
func parseSorts(flags []string) []searchq.SortRequest {
	var out []searchq.SortRequest
	for _, f := range flags {
		col, dir, found := strings.Cut(f, ":")
		if !found {
			dir = searchq.Asc
		}
		out = append(out, searchq.SortRequest{Column: col, Dir: dir})
	}
	return out
}

// composeQuery runs the full search/sort pipeline for the CLI flags.
func composeQuery(m *searchq.Model, text string, sorts []searchq.SortRequest, threshold float64, thresholdSet, entireText, entireTextOnly bool) (*qb.Query, error) {
	opts := searchq.DefaultSearchOptions()
	opts.EntireText = entireText
	opts.EntireTextOnly = entireTextOnly
	if thresholdSet {
		opts.Threshold = &threshold
	}
	return m.SearchSort(m.Query(), text, sorts, opts)
}
