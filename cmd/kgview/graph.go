package kgview

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/soundprediction/kgview/pkg/graph"
	"github.com/soundprediction/kgview/pkg/types"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the visible part of the knowledge graph",
	Long: `Show the knowledge graph filtered by node type and label.

With --text only nodes whose label contains the text are shown, together
with their direct neighbours. Use --node to show the details of one node.`,
	RunE: runGraph,
}

var (
	graphNoDocument bool
	graphNoPerson   bool
	graphNoTopic    bool
	graphText       string
	graphNode       string
	graphJSON       bool
)

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().BoolVar(&graphNoDocument, "no-document", false, "Hide document nodes")
	graphCmd.Flags().BoolVar(&graphNoPerson, "no-person", false, "Hide person nodes")
	graphCmd.Flags().BoolVar(&graphNoTopic, "no-topic", false, "Hide topic nodes")
	graphCmd.Flags().StringVar(&graphText, "text", "", "Label filter (case-insensitive substring)")
	graphCmd.Flags().StringVar(&graphNode, "node", "", "Show details for this node id")
	graphCmd.Flags().BoolVar(&graphJSON, "json", false, "Print as JSON")
}

func runGraph(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), nil, nil)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := cmd.OutOrStdout()

	if graphNode != "" {
		details, err := sess.client.NodeDetails(cmd.Context(), graphNode)
		if err != nil {
			return fmt.Errorf("%s", types.ErrorMessage(err))
		}
		if graphJSON {
			return printJSON(out, details)
		}
		printNodeDetails(out, details)
		return nil
	}

	toggles := graph.Toggles{
		Document: !graphNoDocument,
		Person:   !graphNoPerson,
		Topic:    !graphNoTopic,
	}
	view, err := sess.client.VisibleGraph(cmd.Context(), toggles, graphText)
	if err != nil {
		return fmt.Errorf("%s", types.ErrorMessage(err))
	}
	if graphJSON {
		return printJSON(out, view)
	}
	printView(out, view)
	return nil
}

func printView(w io.Writer, view *graph.View) {
	if view.Empty() {
		fmt.Fprintln(w, "No nodes match the current filters.")
		return
	}

	labels := make(map[string]string, len(view.Nodes))
	for _, n := range view.Layout {
		labels[n.ID] = n.Label
		fmt.Fprintf(w, "%-10s %-28s %s\n", accent(string(n.Type)), title(n.Label), dim(fmt.Sprintf("(%g, %g)", n.Position.X, n.Position.Y)))
	}
	fmt.Fprintln(w)
	for _, e := range view.Links {
		arrow := "-->"
		if e.Animated {
			arrow = "~~>"
		}
		fmt.Fprintf(w, "%s %s %s %s\n", labels[e.Source], arrow, labels[e.Target], dim(e.Label))
	}
	fmt.Fprintln(w, dim(fmt.Sprintf("%d nodes, %d edges", len(view.Nodes), len(view.Edges))))
}

func printNodeDetails(w io.Writer, d *types.NodeDetails) {
	fmt.Fprintf(w, "%s %s\n", title(d.Node.Label), accent("["+string(d.Node.Type)+"]"))
	fmt.Fprintf(w, "%s %s\n", dim("id:"), d.Node.ID)
	for _, m := range d.Metadata {
		fmt.Fprintf(w, "%s %s\n", dim(m.Key+":"), m.Value)
	}
	if d.SourceURL != "" {
		fmt.Fprintf(w, "%s %s\n", dim("open source:"), d.SourceURL)
	}
	if d.AvatarURL != "" {
		fmt.Fprintf(w, "%s %s\n", dim("avatar:"), d.AvatarURL)
	}
}
