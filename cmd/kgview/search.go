package kgview

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soundprediction/kgview"
	"github.com/soundprediction/kgview/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the Q&A corpus",
	Long: `Search the Q&A corpus with a typo-tolerant query.

Results can be narrowed by source (Slack, Notion, GitHub, Confluence) and by
an inclusive date range. Without a query the filtered corpus is listed in its
original order.`,
	RunE: runSearch,
}

var (
	searchSource   string
	searchStart    string
	searchEnd      string
	searchPage     int
	searchPageSize int
	searchJSON     bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchSource, "source", "", "Only records from this source (Slack, Notion, GitHub, Confluence)")
	searchCmd.Flags().StringVar(&searchStart, "start", "", "Earliest record date (yyyy-mm-dd)")
	searchCmd.Flags().StringVar(&searchEnd, "end", "", "Latest record date, inclusive (yyyy-mm-dd)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Result page")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "Results per page (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
}

func searchCriteria() (types.SearchFilterCriteria, error) {
	var criteria types.SearchFilterCriteria
	source, err := types.ParseSourceType(searchSource)
	if err != nil {
		return criteria, err
	}
	criteria.Source = source
	if criteria.StartDate, err = types.ParseDate(searchStart); err != nil {
		return criteria, err
	}
	if criteria.EndDate, err = types.ParseDate(searchEnd); err != nil {
		return criteria, err
	}
	return criteria, criteria.Validate()
}

func runSearch(cmd *cobra.Command, args []string) error {
	criteria, err := searchCriteria()
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context(), nil, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	query := strings.Join(args, " ")
	results, err := sess.client.Search(cmd.Context(), query, criteria, &kgview.SearchOptions{
		Page:     searchPage,
		PageSize: searchPageSize,
	})
	if err != nil {
		return fmt.Errorf("%s", types.ErrorMessage(err))
	}

	if searchJSON {
		return printJSON(cmd.OutOrStdout(), results)
	}
	printSearchResults(cmd.OutOrStdout(), results)
	return nil
}

func printSearchResults(w io.Writer, results *kgview.SearchResults) {
	if results.State.IsEmpty() {
		fmt.Fprintln(w, "No results found. Try a different query or relax the filters.")
		return
	}

	for i, r := range results.Data {
		n := (results.Page.Page-1)*results.PageSize + i + 1
		fmt.Fprintf(w, "%d. %s %s\n", n, title(r.Question), dim(fmt.Sprintf("(%.0f%% confidence)", r.Confidence*100)))
		fmt.Fprintf(w, "   %s\n", r.Answer)
		for _, c := range r.Citations {
			fmt.Fprintf(w, "   %s %s %s\n", accent("["+string(c.Source)+"]"), c.Title, dim(c.URL))
		}
		if len(r.Related) > 0 {
			fmt.Fprintf(w, "   %s %s\n", dim("Related:"), strings.Join(r.Related, " | "))
		}
		fmt.Fprintln(w)
	}

	footer := fmt.Sprintf("Page %d, %d of %d results", results.Page.Page, len(results.Data), results.Total)
	if results.HasMore {
		footer += fmt.Sprintf(" (next: --page %d)", results.Page.Page+1)
	}
	fmt.Fprintln(w, dim(footer))
	if results.ShareURL != "" {
		fmt.Fprintln(w, dim("Share: "+results.ShareURL))
	}
}
