package catalog

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Credential is a named credential definition. Entities reference credentials
// by name only; the username and password are caller-supplied passthrough at
// creation time and are never read back through the catalog.
type Credential struct {
	// Name is the unique identifier other entities reference.
	Name string

	// Username is the account name for the external service.
	Username string

	// Password is the secret. It travels to the store once, at creation,
	// and is never returned by any catalog operation.
	Password string
}

// CredentialClient is the fire-and-forget surface for named credentials:
// create and drop, nothing else. It shares the backend and observability
// wiring of the entity clients.
type CredentialClient struct {
	backend Backend
	tracer  trace.Tracer
}

// NewCredentials creates a credential client bound to the given backend.
func NewCredentials(backend Backend, opts ...ClientOption) *CredentialClient {
	cfg := newClientConfig(opts)
	return &CredentialClient{
		backend: backend,
		tracer:  cfg.tracer,
	}
}

// Create stores a named credential. With replace an existing credential of
// the same name is overwritten; without it, a duplicate name is rejected
// with ERR-20055.
func (c *CredentialClient) Create(ctx context.Context, cred Credential, replace bool) error {
	ctx, span := c.tracer.Start(ctx, "catalog.credential.create",
		trace.WithAttributes(attribute.String("credential.name", cred.Name)))
	defer span.End()

	if cred.Name == "" {
		err := NewError("", "create_credential", ErrCodeCredential, "credential name is required")
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := c.backend.CreateCredential(ctx, cred, replace); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Drop removes a named credential. With force, dropping an absent credential
// is a no-op; without it, absence is rejected with ERR-20055.
func (c *CredentialClient) Drop(ctx context.Context, name string, force bool) error {
	ctx, span := c.tracer.Start(ctx, "catalog.credential.drop",
		trace.WithAttributes(attribute.String("credential.name", name)))
	defer span.End()

	if err := c.backend.DropCredential(ctx, name, force); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
