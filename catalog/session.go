package catalog

import "github.com/google/uuid"

// NewConversationID returns a fresh conversation correlation id for Run
// calls. Reuse the same id across calls to thread them into one logical
// conversation.
func NewConversationID() string {
	return uuid.NewString()
}

// RunParams builds the minimal Run parameter map for a conversation id,
// merging any extra parameters on top.
func RunParams(conversationID string, extra map[string]any) map[string]any {
	params := map[string]any{ParamConversationID: conversationID}
	for k, v := range extra {
		params[k] = v
	}
	return params
}
