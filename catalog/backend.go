package catalog

import "context"

// RawEntity is the wire form of an entity as it crosses the Backend
// boundary: attributes are an untyped Record, status is server-owned.
type RawEntity struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Attributes  Record `json:"attributes"`
	Status      Status `json:"status"`
}

// Rows is a lazily consumed result stream from ListEntities. It is a single
// forward-only pass: once consumed or abandoned it cannot be restarted, and a
// fresh call to ListEntities is needed to iterate again.
type Rows interface {
	// Next advances to the next row, returning false when the stream is
	// exhausted or an error occurred.
	Next() bool

	// Entity returns the current row. Only valid after a true Next.
	Entity() *RawEntity

	// Err returns the first error encountered while streaming, if any.
	Err() error

	// Close releases the stream. Safe to call more than once.
	Close() error
}

// Backend is the remote call surface of the catalog store. One implementation
// exists per transport; every method is a single synchronous round trip.
//
// The backend is authoritative for all business rules: name uniqueness,
// status transitions, attribute validation and per-kind error codes. Clients
// translate its outcomes but never override them. Backends are injected into
// clients at construction; there is no process-wide connection state.
type Backend interface {
	// CreateEntity persists a new entity, or overwrites an existing one of
	// the same kind and name when replace is set. Overwriting fully replaces
	// the stored attributes, it never merges.
	CreateEntity(ctx context.Context, kind Kind, name, description string, attrs Record, enabled, replace bool) error

	// FetchEntity returns the stored entity, or a *NotFoundError.
	FetchEntity(ctx context.Context, kind Kind, name string) (*RawEntity, error)

	// ListEntities streams entities of one kind whose names match pattern,
	// evaluated server-side as a regular expression. An empty pattern
	// matches everything. An invalid pattern surfaces ERR-12726.
	ListEntities(ctx context.Context, kind Kind, pattern string) (Rows, error)

	// SetEntityStatus enables or disables an entity. Whether a repeated
	// identical-state transition is an error is a kind-specific rule.
	SetEntityStatus(ctx context.Context, kind Kind, name string, enabled bool) error

	// SetEntityAttribute updates exactly one attribute field, leaving all
	// others untouched. On rejection no state changes.
	SetEntityAttribute(ctx context.Context, kind Kind, name, key string, value any) error

	// ReplaceEntityAttributes replaces the full attributes record.
	ReplaceEntityAttributes(ctx context.Context, kind Kind, name string, attrs Record) error

	// DeleteEntity removes an entity. force bypasses kind-specific
	// deletable-state checks; its behavior on an absent entity is also
	// kind-specific.
	DeleteEntity(ctx context.Context, kind Kind, name string, force bool) error

	// EntityStatus reads the current status without fetching the entity.
	EntityStatus(ctx context.Context, kind Kind, name string) (Status, error)

	// Run forwards one conversation turn to the orchestrator for the named
	// team.
	Run(ctx context.Context, team, prompt string, params map[string]any) (*RunResponse, error)

	// CreateCredential stores a named credential. The secret material is
	// passed through to the store and never echoed back.
	CreateCredential(ctx context.Context, cred Credential, replace bool) error

	// DropCredential removes a named credential. force makes removal of an
	// absent credential a no-op.
	DropCredential(ctx context.Context, name string, force bool) error

	// Close releases the underlying connection.
	Close() error
}
