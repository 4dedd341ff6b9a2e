package toolgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zero-day-ai/toolgate/catalog"
	"github.com/zero-day-ai/toolgate/config"
	"github.com/zero-day-ai/toolgate/health"
	"github.com/zero-day-ai/toolgate/llm"
	"github.com/zero-day-ai/toolgate/policy"
	"github.com/zero-day-ai/toolgate/selector"
	"github.com/zero-day-ai/toolgate/settings"
)

const instrumentationName = "github.com/zero-day-ai/toolgate"

// TurnRequest is the input to PrepareTurn.
type TurnRequest struct {
	// Provider is the model provider the turn is sent to.
	Provider llm.Provider

	// Query is the text tools are selected for. When empty, the latest user
	// message in Messages is used.
	Query string

	// Messages is the conversation so far.
	Messages []llm.Message

	// MaxTools overrides the configured budget when non-zero. Negative values
	// select no tools.
	MaxTools int
}

// Turn is the provider-ready tool set for one model invocation.
type Turn struct {
	// ID identifies the turn in logs and traces.
	ID string

	Provider llm.Provider
	Query    string

	// Selection is the selector's result before schema rewriting.
	Selection *selector.Result

	// Tools are the selected tools with schemas in the provider's dialect.
	Tools []llm.ToolDef

	// ToolChoice is none when no tools were selected, auto otherwise.
	ToolChoice llm.ToolChoice

	// EstimatedTokens approximates the prompt tokens the tool definitions
	// cost.
	EstimatedTokens int
}

// CompletionRequest builds the request for the model invocation layer.
func (t *Turn) CompletionRequest(messages []llm.Message, opts ...llm.CompletionOption) *llm.CompletionRequest {
	req := llm.NewCompletionRequest(t.Provider, messages, llm.WithTools(t.Tools...))
	req.ApplyOptions(opts...)
	return req
}

// Gate prepares the tools offered to the model on each chat turn.
//
// A Gate is safe for concurrent use. Enablement changes apply between
// turns.
type Gate struct {
	catalog   *catalog.Catalog
	selector  *selector.Selector
	policy    *policy.Policy
	dialects  llm.DialectTable
	maxTools  int
	store     settings.Store
	ownsStore bool

	logger *slog.Logger
	tracer trace.Tracer
}

// New builds a Gate from cfg. A nil cfg uses config.Default.
func New(cfg *config.Config, opts ...Option) (*Gate, error) {
	const op = "toolgate.New"

	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewConfigurationError(op, err)
	}

	gc := &gateConfig{}
	for _, opt := range opts {
		opt(gc)
	}
	if gc.logger == nil {
		gc.logger = slog.New(slog.DiscardHandler)
	}
	if gc.tracer == nil {
		gc.tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	}

	descriptors := gc.descriptors
	if descriptors == nil {
		descriptors = cfg.Descriptors()
	}

	cat, err := catalog.NewWithPrefixes(cfg.Prefixes(), descriptors...)
	if err != nil {
		return nil, NewConfigurationError(op, err)
	}

	pol, err := policy.FromDescriptors(descriptors, policy.WithLogger(gc.logger))
	if err != nil {
		return nil, NewConfigurationError(op, err)
	}

	sel, err := selector.New(cfg.Rules,
		selector.WithLogger(gc.logger),
		selector.WithTracer(gc.tracer),
		selector.WithMeterProvider(gc.meterProvider),
		selector.WithRanker(cfg.Ranker()),
	)
	if err != nil {
		return nil, NewConfigurationError(op, err)
	}

	g := &Gate{
		catalog:  cat,
		selector: sel,
		policy:   pol,
		dialects: cfg.DialectTable(),
		maxTools: cfg.MaxTools,
		store:    gc.store,
		logger:   gc.logger,
		tracer:   gc.tracer,
	}

	if g.maxTools == 0 {
		g.maxTools = selector.DefaultMaxTools
	}

	if g.store == nil {
		store, err := cfg.OpenStore()
		if err != nil {
			return nil, NewSettingsError(op, err)
		}
		g.store = store
		g.ownsStore = store != nil
	}

	g.logger.Debug("tool gate ready",
		"tools", cat.Len(),
		"categories", len(cat.Categories()),
		"availability_rules", pol.Len(),
		"settings", g.store != nil,
	)

	return g, nil
}

// Catalog returns the gate's catalog.
func (g *Gate) Catalog() *catalog.Catalog {
	return g.catalog
}

// Selector returns the gate's selector.
func (g *Gate) Selector() *selector.Selector {
	return g.selector
}

// PrepareTurn selects the tools for one turn: the enabled catalog pool is
// filtered by availability rules for the provider, narrowed to the query's
// categories, ranked down to the budget and rewritten into the provider's
// schema dialect.
func (g *Gate) PrepareTurn(ctx context.Context, req TurnRequest) *Turn {
	turn := &Turn{
		ID:       uuid.NewString(),
		Provider: req.Provider,
		Query:    req.Query,
	}
	if strings.TrimSpace(turn.Query) == "" {
		turn.Query = llm.LatestUserText(req.Messages)
	}

	ctx, span := g.tracer.Start(ctx, "toolgate.PrepareTurn",
		trace.WithAttributes(
			attribute.String("toolgate.turn_id", turn.ID),
			attribute.String("toolgate.provider", string(req.Provider)),
		),
	)
	defer span.End()

	maxTools := req.MaxTools
	if maxTools == 0 {
		maxTools = g.maxTools
	}

	pool := g.policy.Filter(ctx, g.catalog.Pool(), string(req.Provider))

	turn.Selection = g.selector.Select(ctx, selector.Request{
		Query:    turn.Query,
		Pool:     pool,
		MaxTools: maxTools,
	})
	turn.Tools = llm.ToolDefs(turn.Selection.Tools, req.Provider, g.dialects)
	turn.ToolChoice = llm.ChoiceFor(turn.Tools)
	turn.EstimatedTokens = llm.EstimateToolTokens(turn.Tools)

	span.SetAttributes(
		attribute.Int("toolgate.tools", len(turn.Tools)),
		attribute.Bool("toolgate.strict", g.dialects.Strict(req.Provider)),
		attribute.Int("toolgate.estimated_tokens", turn.EstimatedTokens),
	)

	g.logger.DebugContext(ctx, "prepared turn",
		"turn_id", turn.ID,
		"provider", req.Provider,
		"tools", turn.Selection.IDs(),
		"fallback", turn.Selection.Fallback,
		"estimated_tokens", turn.EstimatedTokens,
	)

	return turn
}

// SetEnabled toggles a tool. With a settings store, the flag is written to
// the store first so other processes following it see the change.
func (g *Gate) SetEnabled(ctx context.Context, toolID string, enabled bool) error {
	const op = "Gate.SetEnabled"

	if toolID == "" {
		return NewValidationError(op, fmt.Errorf("tool id cannot be empty"))
	}
	if _, ok := g.catalog.Get(toolID); !ok {
		return NewNotFoundError(op, fmt.Errorf("%w: %s", catalog.ErrUnknownTool, toolID))
	}

	if g.store != nil {
		if err := g.store.SetEnabled(ctx, toolID, enabled); err != nil {
			return NewSettingsError(op, err).WithContext(map[string]any{"tool": toolID})
		}
	}
	return g.catalog.SetEnabled(toolID, enabled)
}

// SyncSettings applies every flag in the settings store to the catalog and
// returns how many were applied.
func (g *Gate) SyncSettings(ctx context.Context) (int, error) {
	const op = "Gate.SyncSettings"

	if g.store == nil {
		return 0, NewConfigurationError(op, ErrNoSettings)
	}

	n, err := settings.Apply(ctx, g.store, g.catalog)
	if err != nil {
		return n, NewSettingsError(op, err)
	}

	g.logger.InfoContext(ctx, "synced tool settings", "applied", n)
	return n, nil
}

// FollowSettings applies settings changes until ctx ends. It returns
// ctx.Err() when the context ends.
func (g *Gate) FollowSettings(ctx context.Context) error {
	const op = "Gate.FollowSettings"

	if g.store == nil {
		return NewConfigurationError(op, ErrNoSettings)
	}
	w, ok := g.store.(settings.Watcher)
	if !ok {
		return NewConfigurationError(op, ErrWatchUnsupported)
	}

	err := settings.Follow(ctx, w, g.catalog, g.logger)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return NewSettingsError(op, err)
}

// Health combines the catalog, rule coverage and settings store checks.
func (g *Gate) Health(ctx context.Context) health.Status {
	return health.Combine(
		health.CatalogCheck(g.catalog),
		health.RulesCheck(g.selector.Rules(), g.catalog),
		health.StoreCheck(ctx, g.store),
	)
}

// Close releases the settings store when the gate opened it.
func (g *Gate) Close() error {
	if g.store == nil || !g.ownsStore {
		return nil
	}
	if err := g.store.Close(); err != nil {
		return NewSettingsError("Gate.Close", err)
	}
	return nil
}
