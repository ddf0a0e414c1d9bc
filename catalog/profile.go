package catalog

// ProfileAttributes configures an AI provider profile. Profiles are
// referenced by name from tools and agents; the reference is resolved lazily,
// when the referencing entity is used.
type ProfileAttributes struct {
	// Provider is the model provider identifier (e.g. "oci_genai", "openai").
	Provider string `json:"provider"`

	// Model is the provider-specific model name.
	Model string `json:"model"`

	// CredentialName references an externally managed named credential.
	// Only the name travels through the catalog, never secret material.
	CredentialName string `json:"credential_name,omitempty"`

	// Temperature is the sampling temperature, 0 through 2.
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// ProfileSchema is the attribute schema table for profiles.
var ProfileSchema = MustSchema(KindProfile, map[string]FieldSpec{
	"provider":        {Type: FieldString, Required: true},
	"model":           {Type: FieldString, Required: true},
	"credential_name": {Type: FieldString},
	"temperature":     {Type: FieldNumber, Check: "value >= 0.0 && value <= 2.0"},
	"max_tokens":      {Type: FieldNumber, Check: "value >= 0.0"},
})

// Profile is a catalog entity carrying ProfileAttributes.
type Profile = Entity[ProfileAttributes]

// ProfileClient manages the lifecycle of profiles.
type ProfileClient struct {
	*Client[ProfileAttributes]
}

// NewProfiles creates a profile client bound to the given backend.
func NewProfiles(backend Backend, opts ...ClientOption) *ProfileClient {
	return &ProfileClient{Client: NewClient[ProfileAttributes](KindProfile, ProfileSchema, backend, opts...)}
}
