// Package selector picks the tools to expose to the model for one chat turn.
//
// Selection runs in three steps over the caller's candidate pool:
//
//  1. Classify maps the query to categories by keyword substring match. When
//     nothing matches, the fallback categories are used instead.
//  2. Expand keeps the pool's tools in those categories, in pool order.
//  3. A Ranker trims the candidates to the tool budget by score, keeping the
//     original order among equal scores.
//
// A Selector composes the three with tracing, metrics and logging:
//
//	s, err := selector.New(rules, selector.WithRanker(ranker))
//	if err != nil {
//		return err
//	}
//	res := s.Select(ctx, selector.Request{
//		Query:    "What ferries go from Piraeus to Aegina tomorrow?",
//		Pool:     cat.Pool(),
//		MaxTools: 8,
//	})
//
// Select never fails and is deterministic for identical inputs.
package selector
