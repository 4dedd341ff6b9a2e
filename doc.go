// Package toolgate decides which tools a chat assistant offers the model on
// each turn.
//
// Sending every tool definition with every request wastes context and
// confuses smaller models. A Gate keeps a catalog of tool descriptors and,
// per turn, narrows it to the few tools relevant to the user's latest
// message, then rewrites their input schemas into the dialect the target
// provider accepts.
//
// # Turn pipeline
//
// PrepareTurn runs these steps in order:
//
//   - Pool: the enabled tools of the catalog (package catalog)
//   - Availability: per-tool CEL expressions evaluated for the provider (package policy)
//   - Classification: keyword rules map the query to categories, with a fallback set (package selector)
//   - Expansion: every pool tool in a matched category becomes a candidate
//   - Ranking: oversized candidate lists are scored and cut to the budget
//   - Sanitization: schemas are rewritten per provider dialect (packages schema and llm)
//
// Selection never fails. An empty or unmatched query falls back to the
// general categories, and an empty pool yields a turn with no tools and a
// tool choice of "none".
//
// # Getting Started
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gate, err := toolgate.New(cfg, toolgate.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gate.Close()
//
//	turn := gate.PrepareTurn(ctx, toolgate.TurnRequest{
//		Provider: llm.ProviderOpenAI,
//		Messages: history,
//	})
//	req := turn.CompletionRequest(history, llm.WithMaxTokens(1024))
//
// # Settings
//
// Tool enablement can live outside the process. Configure a memory, Redis
// or etcd backend (package settings), then call SyncSettings once at start
// and run FollowSettings in a goroutine to pick up changes made elsewhere:
//
//	if _, err := gate.SyncSettings(ctx); err != nil {
//		return err
//	}
//	go gate.FollowSettings(ctx)
//
// # Observability
//
// WithTracer and WithMeterProvider attach OpenTelemetry spans and selection
// metrics. Both default to no-ops, and logs are discarded unless WithLogger
// is given.
package toolgate
