package catalog

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// TeamProcess describes how a team sequences its member agents.
type TeamProcess string

const (
	// ProcessSequential runs each member agent in declaration order.
	ProcessSequential TeamProcess = "sequential"
)

// TeamMember pairs an agent with the task it performs inside a team.
type TeamMember struct {
	Name string `json:"name"`
	Task string `json:"task"`
}

// TeamAttributes configures a team of agents. Member references are resolved
// lazily: a team may name agents or tasks that do not exist yet; the dangling
// references only fail at Run time.
type TeamAttributes struct {
	// Agents lists the members in process order. Required, non-empty.
	Agents []TeamMember `json:"agents"`

	// Process selects how members are sequenced. Required.
	Process TeamProcess `json:"process"`
}

// TeamSchema is the attribute schema table for teams.
var TeamSchema = MustSchema(KindTeam, map[string]FieldSpec{
	"agents":  {Type: FieldList, Required: true},
	"process": {Type: FieldString, Required: true, Enum: []string{string(ProcessSequential)}},
})

// Team is a catalog entity carrying TeamAttributes.
type Team = Entity[TeamAttributes]

// ResponseType distinguishes the two shapes a Run answer can take.
type ResponseType string

const (
	// ResponseFinalAnswer is a complete answer to the prompt.
	ResponseFinalAnswer ResponseType = "final_answer"

	// ResponseNeedsHumanInput asks the caller to supply more information
	// before the conversation can continue.
	ResponseNeedsHumanInput ResponseType = "needs_human_input"
)

// RunResponse is the structured result of a Team Run call.
type RunResponse struct {
	// Type says whether Message is a final answer or a request for human
	// input.
	Type ResponseType `json:"type"`

	// Message is the orchestrator's text.
	Message string `json:"message"`

	// Details carries any additional structured payload, verbatim from the
	// orchestrator.
	Details map[string]any `json:"details,omitempty"`
}

// IsFinal reports whether the response is a final answer.
func (r *RunResponse) IsFinal() bool { return r.Type == ResponseFinalAnswer }

// ParamConversationID is the Run parameter key threading multiple calls into
// one logical conversation. Every Run call must supply it.
const ParamConversationID = "conversation_id"

// TeamClient manages the lifecycle of teams and proxies conversation turns
// to the backend orchestrator.
//
// Teams carry stricter state rules than the other kinds: enabling an enabled
// team (or disabling a disabled one) is rejected with ERR-20053, as is a
// force-delete of a team that no longer exists.
type TeamClient struct {
	*Client[TeamAttributes]
}

// NewTeams creates a team client bound to the given backend.
func NewTeams(backend Backend, opts ...ClientOption) *TeamClient {
	return &TeamClient{Client: NewClient[TeamAttributes](KindTeam, TeamSchema, backend, opts...)}
}

// Run forwards one conversation turn to the backend orchestrator and blocks
// until it answers. params must include ParamConversationID; reuse the same
// id across calls to continue a conversation. The orchestration itself is an
// opaque backend capability: the client performs no retries and no local
// interpretation beyond decoding the response shape.
func (c *TeamClient) Run(ctx context.Context, name, prompt string, params map[string]any) (*RunResponse, error) {
	ctx, span := c.startOp(ctx, "run", name, attribute.Int("prompt_length", len(prompt)))
	defer span.End()

	resp, err := c.backend.Run(ctx, name, prompt, params)
	return resp, c.finishOp(span, "run", err)
}
