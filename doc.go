// Package kgview serves a mocked knowledge graph: dashboard metrics, a Q&A
// search experience and a document/person/topic graph, all read from static
// fixtures through a simulated network hop with random latency and injected
// failures.
//
// # Basic Usage
//
// Open a client from the application configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := kgview.Open(ctx, cfg, nil, slog.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// # Searching
//
// Search filters the Q&A corpus by source and date, ranks it fuzzily
// against the query and returns one page:
//
//	results, err := client.Search(ctx, "deploy staging", types.SearchFilterCriteria{
//		Source: types.SourceGitHub,
//	}, nil)
//	if err != nil {
//		fmt.Println(types.ErrorMessage(err))
//		return
//	}
//	for _, r := range results.Data {
//		fmt.Printf("%.0f%% %s\n", r.Confidence*100, r.Question)
//	}
//
// A blank query returns the filtered corpus with its original confidence
// and order.
//
// # Graph
//
// VisibleGraph applies the type toggles and a label filter and lays the
// result out in three lanes:
//
//	view, err := client.VisibleGraph(ctx, graph.Toggles{Document: true, Topic: true}, "react")
//
// # Errors
//
// Every data method may fail, either through the simulated transport or
// because fixtures could not be loaded. Failures are *types.OperationError
// values; types.ErrorMessage returns the text to display.
//
// # Theme
//
// The light/dark theme is the only persisted state. It is read when the
// client opens and written on every change.
package kgview
