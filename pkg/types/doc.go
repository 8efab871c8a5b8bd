// Package types defines the data types shared across kgview.
//
// This package contains:
//   - QARecord and Citation: entries of the Q&A search corpus
//   - SearchFilterCriteria: source and date bounds applied before ranking
//   - GraphNode, GraphEdge and Graph: the knowledge-graph snapshot
//   - DashboardData: metrics and chart series for the dashboard
//   - ViewState and Theme: presentational state shared with the UI
//   - OperationError: the single failure kind surfaced to callers
//
// # Validation
//
// Records provide Validate() methods that check the invariants fixtures
// must hold once loaded:
//
//	rec := &types.QARecord{ID: "Q001", Question: "How do we deploy?", Confidence: 0.9}
//	if err := rec.Validate(); err != nil {
//	    // Handle validation error
//	}
//
// # Copies
//
// Clone methods return deep copies so that a caller never shares slices or
// metadata maps with the fixture store or with another caller.
package types
