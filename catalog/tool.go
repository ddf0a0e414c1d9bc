package catalog

// ToolType classifies what a tool does when the orchestrator invokes it.
type ToolType string

const (
	ToolTypeSQL          ToolType = "SQL"
	ToolTypeRAG          ToolType = "RAG"
	ToolTypePLSQL        ToolType = "PLSQL"
	ToolTypeWebSearch    ToolType = "WEBSEARCH"
	ToolTypeNotification ToolType = "NOTIFICATION"
	ToolTypeHTTP         ToolType = "HTTP"
	ToolTypeHuman        ToolType = "HUMAN"
)

// NotificationType selects the delivery channel of a NOTIFICATION tool.
type NotificationType string

const (
	NotificationEmail NotificationType = "EMAIL"
	NotificationSlack NotificationType = "SLACK"
)

// ToolParams carries the type-specific parameters of a tool. All fields are
// optional at the schema level; the relevant ones depend on the tool type and
// the factory helpers fill them in.
type ToolParams struct {
	// ProfileName references the AI profile used by SQL and RAG tools.
	ProfileName string `json:"profile_name,omitempty"`

	// CredentialName references an externally managed named credential.
	CredentialName string `json:"credential_name,omitempty"`

	// NotificationType selects EMAIL or SLACK delivery.
	NotificationType NotificationType `json:"notification_type,omitempty"`

	// Recipient, Sender and SMTPHost configure e-mail notification tools.
	Recipient string `json:"recipient,omitempty"`
	Sender    string `json:"sender,omitempty"`
	SMTPHost  string `json:"smtp_host,omitempty"`

	// SlackChannel configures Slack notification tools.
	SlackChannel string `json:"slack_channel,omitempty"`

	// Endpoint configures HTTP tools.
	Endpoint string `json:"endpoint,omitempty"`
}

// ToolAttributes configures a tool the orchestrator can invoke on behalf of
// an agent. Profile and function references are resolved lazily, at run time,
// so a tool pointing at a missing profile is still creatable.
type ToolAttributes struct {
	// ToolType selects the tool flavor. Required.
	ToolType ToolType `json:"tool_type"`

	// Instruction tells the orchestrator when to use the tool.
	Instruction string `json:"instruction,omitempty"`

	// Function names the stored function PLSQL tools call.
	Function string `json:"function,omitempty"`

	// ToolParams carries type-specific parameters.
	ToolParams *ToolParams `json:"tool_params,omitempty"`
}

// ToolSchema is the attribute schema table for tools.
var ToolSchema = MustSchema(KindTool, map[string]FieldSpec{
	"tool_type": {Type: FieldString, Required: true, Enum: []string{
		string(ToolTypeSQL), string(ToolTypeRAG), string(ToolTypePLSQL),
		string(ToolTypeWebSearch), string(ToolTypeNotification),
		string(ToolTypeHTTP), string(ToolTypeHuman),
	}},
	"instruction": {Type: FieldString},
	"function":    {Type: FieldString},
	"tool_params": {Type: FieldObject},
})

// Tool is a catalog entity carrying ToolAttributes.
type Tool = Entity[ToolAttributes]

// ToolClient manages the lifecycle of tools.
type ToolClient struct {
	*Client[ToolAttributes]
}

// NewTools creates a tool client bound to the given backend.
func NewTools(backend Backend, opts ...ClientOption) *ToolClient {
	return &ToolClient{Client: NewClient[ToolAttributes](KindTool, ToolSchema, backend, opts...)}
}

// NewSQLTool builds a SQL tool entity bound to an AI profile. The profile
// need not exist yet.
func NewSQLTool(name, profileName, description string) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Attributes: ToolAttributes{
			ToolType:   ToolTypeSQL,
			ToolParams: &ToolParams{ProfileName: profileName},
		},
	}
}

// NewRAGTool builds a retrieval-augmented-generation tool entity bound to an
// AI profile.
func NewRAGTool(name, profileName, description string) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Attributes: ToolAttributes{
			ToolType:   ToolTypeRAG,
			ToolParams: &ToolParams{ProfileName: profileName},
		},
	}
}

// NewPLSQLTool builds a tool entity that calls a stored function. The
// function need not exist yet; it is resolved when the tool runs.
func NewPLSQLTool(name, function, description string) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Attributes: ToolAttributes{
			ToolType: ToolTypePLSQL,
			Function: function,
		},
	}
}

// NewWebSearchTool builds a web-search tool entity authenticated by a named
// credential.
func NewWebSearchTool(name, credentialName, instruction, description string) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Attributes: ToolAttributes{
			ToolType:    ToolTypeWebSearch,
			Instruction: instruction,
			ToolParams:  &ToolParams{CredentialName: credentialName},
		},
	}
}

// EmailToolParams configures NewEmailNotificationTool.
type EmailToolParams struct {
	CredentialName string
	Recipient      string
	Sender         string
	SMTPHost       string
}

// NewEmailNotificationTool builds an e-mail notification tool entity.
func NewEmailNotificationTool(name, description string, params EmailToolParams) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Attributes: ToolAttributes{
			ToolType: ToolTypeNotification,
			ToolParams: &ToolParams{
				CredentialName:   params.CredentialName,
				NotificationType: NotificationEmail,
				Recipient:        params.Recipient,
				Sender:           params.Sender,
				SMTPHost:         params.SMTPHost,
			},
		},
	}
}

// NewSlackNotificationTool builds a Slack notification tool entity.
func NewSlackNotificationTool(name, credentialName, channel, description string) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Attributes: ToolAttributes{
			ToolType: ToolTypeNotification,
			ToolParams: &ToolParams{
				CredentialName:   credentialName,
				NotificationType: NotificationSlack,
				SlackChannel:     channel,
			},
		},
	}
}

// NewHTTPTool builds an HTTP tool entity calling the given endpoint.
func NewHTTPTool(name, credentialName, endpoint, description string) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Attributes: ToolAttributes{
			ToolType: ToolTypeHTTP,
			ToolParams: &ToolParams{
				CredentialName: credentialName,
				Endpoint:       endpoint,
			},
		},
	}
}

// NewBuiltInTool builds an entity for a tool flavor the backend implements
// natively, such as the HUMAN escalation tool.
func NewBuiltInTool(name string, toolType ToolType, description string) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Attributes: ToolAttributes{
			ToolType:   toolType,
			ToolParams: &ToolParams{},
		},
	}
}
