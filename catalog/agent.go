package catalog

// AgentAttributes configures a conversational agent. The referenced profile
// supplies its model; the role is the agent's system persona.
type AgentAttributes struct {
	// ProfileName references the AI profile the agent runs against. Required.
	ProfileName string `json:"profile_name"`

	// Role is the agent's persona instruction. Required.
	Role string `json:"role"`

	// EnableHumanTool permits the agent to escalate to a human.
	EnableHumanTool bool `json:"enable_human_tool,omitempty"`
}

// AgentSchema is the attribute schema table for agents.
var AgentSchema = MustSchema(KindAgent, map[string]FieldSpec{
	"profile_name":      {Type: FieldString, Required: true},
	"role":              {Type: FieldString, Required: true},
	"enable_human_tool": {Type: FieldBool},
})

// Agent is a catalog entity carrying AgentAttributes.
type Agent = Entity[AgentAttributes]

// AgentClient manages the lifecycle of agents.
type AgentClient struct {
	*Client[AgentAttributes]
}

// NewAgents creates an agent client bound to the given backend.
func NewAgents(backend Backend, opts ...ClientOption) *AgentClient {
	return &AgentClient{Client: NewClient[AgentAttributes](KindAgent, AgentSchema, backend, opts...)}
}
