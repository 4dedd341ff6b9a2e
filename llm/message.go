package llm

import "strings"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	// RoleSystem represents system-level instructions or context.
	RoleSystem Role = "system"

	// RoleUser represents messages from the user.
	RoleUser Role = "user"

	// RoleAssistant represents messages from the AI assistant.
	RoleAssistant Role = "assistant"

	// RoleTool represents tool execution results.
	RoleTool Role = "tool"
)

// PartType identifies the kind of a message part.
type PartType string

const (
	PartText     PartType = "text"
	PartImage    PartType = "image"
	PartToolCall PartType = "tool-call"
)

// Part is one piece of a multi-part message. Only text parts carry Text.
type Part struct {
	Type PartType `json:"type"`
	Text string   `json:"text,omitempty"`
}

// Message represents a single message in a conversation.
type Message struct {
	// Role indicates who sent the message.
	Role Role `json:"role"`

	// Content is the plain text content of the message.
	Content string `json:"content,omitempty"`

	// Parts holds structured content for chat clients that send messages as
	// a list of parts. When present, the text parts are the message text.
	Parts []Part `json:"parts,omitempty"`
}

// Text returns the message text: the text parts joined by newlines when the
// message has parts, Content otherwise.
func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var texts []string
	for _, p := range m.Parts {
		if p.Type == PartText && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// IsValid validates that the message has a known role and some content.
func (m Message) IsValid() bool {
	return m.Role.IsValid() && (m.Content != "" || len(m.Parts) > 0)
}

// LatestUserText returns the text of the last user message, or "" when the
// conversation has none.
func LatestUserText(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Text()
		}
	}
	return ""
}

// String returns a string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}
