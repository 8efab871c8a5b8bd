// Package search ranks the Q&A corpus against a free-text query.
//
// Ranking runs in three fixed stages, each narrowing or re-scoring the
// output of the previous one:
//
//   - Source filter: keep records whose source types, or any citation,
//     carry the requested source
//   - Date filter: keep records dated within [start 00:00:00, end 23:59:59]
//   - Fuzzy stage: for a non-blank query, approximately match the query
//     against the weighted fields question (0.6), answer (0.3), topics (0.05)
//     and citation titles (0.05), drop non-matches, replace each record's
//     confidence with a value derived from its match score and sort by
//     confidence, highest first
//
// A blank query skips the fuzzy stage and returns the filtered records with
// their confidence and order untouched.
//
// # Usage
//
//	searcher := search.NewSearcher(search.DefaultConfig())
//	results := searcher.Rank(corpus, "how do we deploy", types.SearchFilterCriteria{
//	    Source: types.SourceGitHub,
//	})
//
// # Scoring
//
// Each field value is scored in [0,1] where 0 is a perfect match: the query
// is split into tokens, every token is compared against the value's words
// by edit distance (a contained token or a matching word prefix counts as
// exact) and the per-token distances are averaged. A value matches when its
// score is at or below Config.Threshold. The record score is the product of
// score^(weight*norm) over its matching values, where norm shrinks the
// influence of long values. Confidence is 1-score clamped to
// [Config.MinConfidence, Config.MaxConfidence].
//
// Searcher holds no mutable state; a single instance can serve concurrent
// callers.
package search
