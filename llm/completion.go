package llm

// CompletionRequest is what the model invocation layer receives for one
// turn: the conversation plus the bounded, provider-ready tool set.
type CompletionRequest struct {
	// Provider is the target model provider.
	Provider Provider

	// Messages contains the conversation history.
	Messages []Message

	// Tools contains tool definitions available for the model to use.
	Tools []ToolDef

	// ToolChoice tells the model how to use Tools.
	ToolChoice ToolChoice

	// Temperature controls randomness in the output (0.0 to 2.0).
	Temperature *float64

	// MaxTokens limits the maximum number of tokens to generate.
	MaxTokens *int
}

// CompletionOption is a functional option for configuring CompletionRequest.
type CompletionOption func(*CompletionRequest)

// WithTemperature sets the temperature for the completion request.
func WithTemperature(t float64) CompletionOption {
	return func(r *CompletionRequest) {
		r.Temperature = &t
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) CompletionOption {
	return func(r *CompletionRequest) {
		r.MaxTokens = &n
	}
}

// WithTools sets the available tools and picks the matching tool choice.
func WithTools(tools ...ToolDef) CompletionOption {
	return func(r *CompletionRequest) {
		r.Tools = tools
		r.ToolChoice = ChoiceFor(tools)
	}
}

// WithToolChoice overrides the tool choice.
func WithToolChoice(tc ToolChoice) CompletionOption {
	return func(r *CompletionRequest) {
		r.ToolChoice = tc
	}
}

// ApplyOptions applies a set of options to the completion request.
func (r *CompletionRequest) ApplyOptions(opts ...CompletionOption) {
	for _, opt := range opts {
		opt(r)
	}
}

// NewCompletionRequest creates a new CompletionRequest with the given messages and options.
func NewCompletionRequest(provider Provider, messages []Message, opts ...CompletionOption) *CompletionRequest {
	req := &CompletionRequest{
		Provider:   provider,
		Messages:   messages,
		ToolChoice: ToolChoiceNone,
	}
	req.ApplyOptions(opts...)
	return req
}

// HasTools returns true if the request offers the model any tools.
func (r *CompletionRequest) HasTools() bool {
	return len(r.Tools) > 0 && r.ToolChoice != ToolChoiceNone
}
