package cli

import (
	"encoding/json"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/modsearch/pkg/search"
)

func newSearchCommand(a *app) *cobra.Command {
	var (
		limit   int
		asJSON  bool
		details bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank modules by name against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			results, err := a.service.Search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			if results == nil {
				results = []search.ScoredResult{}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(search.Response{Results: results})
			}

			if len(results) == 0 {
				writeLine(out, "No modules match %q", query)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			writeLine(tw, "RATIO\tMODULE\tNAME\tDEVELOPER\tLINK")
			for _, r := range results {
				writeLine(tw, "%.2f\t%s\t%s\t%s\t%s",
					r.Ratio, r.Module, valueOr(r.Name, r.Module), valueOr(r.Developer, "-"), r.Link)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if details {
				for _, r := range results {
					writeLine(out, "\n%s: %s", r.Module, valueOr(r.Description, "-"))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default from configuration)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	cmd.Flags().BoolVarP(&details, "details", "d", false, "Print module descriptions after the table")

	return cmd
}
