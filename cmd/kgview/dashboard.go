package kgview

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soundprediction/kgview/pkg/types"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard metrics",
	RunE:  runDashboard,
}

var dashboardJSON bool

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "Print as JSON")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), nil, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	data, err := sess.client.Dashboard(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", types.ErrorMessage(err))
	}
	if dashboardJSON {
		return printJSON(cmd.OutOrStdout(), data)
	}
	printDashboard(cmd.OutOrStdout(), data)
	return nil
}

func printDashboard(w io.Writer, d types.DashboardData) {
	if d.IsEmpty() {
		fmt.Fprintln(w, "No dashboard data yet.")
		return
	}

	m := d.Metrics
	fmt.Fprintf(w, "%s %d\n", accent("Docs indexed:      "), m.DocsIndexed)
	fmt.Fprintf(w, "%s %d\n", accent("Questions answered:"), m.QuestionsAnswered)
	fmt.Fprintf(w, "%s %.1fh\n", accent("Time saved:        "), m.TimeSavedHours)
	fmt.Fprintf(w, "%s %.0f%%\n", accent("Health score:      "), m.HealthScore)

	if len(d.SearchVolume) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, title("Search volume"))
		peak := 0
		for _, p := range d.SearchVolume {
			peak = max(peak, p.Count)
		}
		for _, p := range d.SearchVolume {
			bar := 0
			if peak > 0 {
				bar = p.Count * 40 / peak
			}
			fmt.Fprintf(w, "%s %s %d\n", dim(p.Date), strings.Repeat("#", bar), p.Count)
		}
	}

	if len(d.TopTopics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, title("Top topics"))
		for _, t := range d.TopTopics {
			fmt.Fprintf(w, "  %-24s %d\n", t.Topic, t.Count)
		}
	}

	if len(d.GapsByType) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, title("Knowledge gaps"))
		for _, g := range d.GapsByType {
			fmt.Fprintf(w, "  %-24s %g\n", g.Label, g.Value)
		}
	}
}
