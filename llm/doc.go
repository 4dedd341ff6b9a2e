// Package llm holds the provider-facing side of tool selection: provider
// identifiers, the provider to schema dialect table, tool definitions in the
// shape model APIs expect, and the conversation types the latest user query
// is read from.
//
// # Providers and dialects
//
// Each provider accepts a JSON Schema dialect for tool parameters. The
// DialectTable maps providers to dialects; adding a strict provider is a table
// entry:
//
//	table := llm.DefaultDialects().With(llm.DialectTable{
//	    "mistral": schema.DialectStrict,
//	})
//	params := table.Sanitize(descriptor.InputSchema, llm.ProviderOpenAI)
//
// # Tool Definitions
//
// ToolDefs turns selected catalog descriptors into provider tool definitions:
//
//	defs := llm.ToolDefs(result.Tools, llm.ProviderOpenAI, nil)
//	req := llm.NewCompletionRequest(llm.ProviderOpenAI, messages, llm.WithTools(defs...))
//
// # Messages
//
// LatestUserText extracts the query the selector works on. A conversation
// without a user message yields the empty string:
//
//	query := llm.LatestUserText(messages)
package llm
