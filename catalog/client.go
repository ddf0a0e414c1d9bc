package catalog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ClientOption configures a catalog client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
}

func newClientConfig(opts []ClientOption) *clientConfig {
	cfg := &clientConfig{
		logger: slog.Default(),
		tracer: tracenoop.NewTracerProvider().Tracer("catalog"),
		meter:  metricnoop.NewMeterProvider().Meter("catalog"),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets a structured logger for the client. If not provided,
// slog.Default() is used.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer; every client operation becomes a
// span. No-op when unset.
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *clientConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter; the client counts operations per
// kind and outcome. No-op when unset.
func WithMeter(meter metric.Meter) ClientOption {
	return func(c *clientConfig) {
		c.meter = meter
	}
}

// CreateOption configures a Create call.
type CreateOption func(*createConfig)

type createConfig struct {
	replace  bool
	disabled bool
}

// WithReplace makes Create overwrite an existing entity of the same name
// atomically; the previous attributes are fully replaced, never merged.
// Without it, a duplicate name is rejected with the kind's domain code.
func WithReplace() CreateOption {
	return func(c *createConfig) {
		c.replace = true
	}
}

// WithDisabled creates the entity in DISABLED state instead of the default
// ENABLED.
func WithDisabled() CreateOption {
	return func(c *createConfig) {
		c.disabled = true
	}
}

// DeleteOption configures a Delete call.
type DeleteOption func(*deleteConfig)

type deleteConfig struct {
	force bool
}

// WithForce bypasses the kind-specific deletable-state check. For most kinds
// a forced delete of an absent entity is a no-op; teams reject it with
// ERR-20053.
func WithForce() DeleteOption {
	return func(c *deleteConfig) {
		c.force = true
	}
}

// Client is the uniform lifecycle client for one entity kind. Instantiate it
// through the kind constructors (NewProfiles, NewTools, NewTasks, NewAgents,
// NewTeams), which bind the kind's schema table and attribute type.
//
// A Client holds no mutable state beyond its wiring and is safe for
// concurrent use; each operation is one synchronous round trip against the
// injected Backend. The client performs local schema validation where it can
// decide without the store, but the backend remains authoritative and its
// errors pass through with codes and messages intact.
type Client[A any] struct {
	kind    Kind
	schema  *Schema
	backend Backend
	logger  *slog.Logger
	tracer  trace.Tracer
	ops     metric.Int64Counter
}

// NewClient builds a lifecycle client for an entity kind. Most callers want
// the typed kind constructors instead.
func NewClient[A any](kind Kind, schema *Schema, backend Backend, opts ...ClientOption) *Client[A] {
	cfg := newClientConfig(opts)

	ops, err := cfg.meter.Int64Counter("catalog.client.operations",
		metric.WithDescription("Catalog operations issued, by kind, operation and outcome."))
	if err != nil {
		cfg.logger.Warn("failed to create operations counter", "error", err)
	}

	return &Client[A]{
		kind:    kind,
		schema:  schema,
		backend: backend,
		logger:  cfg.logger.With("kind", kind.String()),
		tracer:  cfg.tracer,
		ops:     ops,
	}
}

// Kind returns the entity kind this client manages.
func (c *Client[A]) Kind() Kind { return c.kind }

// Schema returns the attribute schema table for this client's kind.
func (c *Client[A]) Schema() *Schema { return c.schema }

// Create persists the entity. The default creates it ENABLED; see
// WithDisabled and WithReplace. Required attributes are validated locally
// before the round trip, so an incomplete record never leaves the process.
func (c *Client[A]) Create(ctx context.Context, e *Entity[A], opts ...CreateOption) error {
	cfg := &createConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := c.startOp(ctx, "create", e.Name,
		attribute.Bool("replace", cfg.replace))
	defer span.End()

	if e.Name == "" {
		return c.finishOp(span, "create",
			NewError(c.kind, "create", CodeFor(c.kind), "entity name is required"))
	}

	rec, err := EncodeRecord(e.Attributes)
	if err != nil {
		return c.finishOp(span, "create", err)
	}
	if err := c.schema.Validate(rec); err != nil {
		return c.finishOp(span, "create", err)
	}

	err = c.backend.CreateEntity(ctx, c.kind, e.Name, e.Description, rec, !cfg.disabled, cfg.replace)
	return c.finishOp(span, "create", err)
}

// Fetch returns the stored entity by name, or a *NotFoundError. The returned
// attributes round-trip equal to what was stored.
func (c *Client[A]) Fetch(ctx context.Context, name string) (*Entity[A], error) {
	ctx, span := c.startOp(ctx, "fetch", name)
	defer span.End()

	raw, err := c.backend.FetchEntity(ctx, c.kind, name)
	if err != nil {
		return nil, c.finishOp(span, "fetch", err)
	}
	e, err := c.decode(raw)
	return e, c.finishOp(span, "fetch", err)
}

// List returns a cursor over entities of this kind. An optional single
// pattern restricts the result to names matching it as a server-side regular
// expression; an invalid pattern surfaces the backend's ERR-12726 unchanged.
// The cursor is a single forward pass; call List again to re-iterate.
func (c *Client[A]) List(ctx context.Context, pattern ...string) (*Cursor[A], error) {
	p := ""
	if len(pattern) > 0 {
		p = pattern[0]
	}

	ctx, span := c.startOp(ctx, "list", p)
	defer span.End()

	rows, err := c.backend.ListEntities(ctx, c.kind, p)
	if err != nil {
		return nil, c.finishOp(span, "list", err)
	}
	c.finishOp(span, "list", nil)
	return newCursor[A](rows), nil
}

// Enable transitions the entity to ENABLED. Whether enabling an already
// enabled entity succeeds is a kind-specific rule: teams reject it, the
// other kinds tolerate it. An absent entity yields a *NotFoundError.
func (c *Client[A]) Enable(ctx context.Context, name string) error {
	ctx, span := c.startOp(ctx, "enable", name)
	defer span.End()

	return c.finishOp(span, "enable", c.backend.SetEntityStatus(ctx, c.kind, name, true))
}

// Disable transitions the entity to DISABLED. See Enable for the repeated-
// transition rule.
func (c *Client[A]) Disable(ctx context.Context, name string) error {
	ctx, span := c.startOp(ctx, "disable", name)
	defer span.End()

	return c.finishOp(span, "disable", c.backend.SetEntityStatus(ctx, c.kind, name, false))
}

// SetAttribute updates exactly one attribute field, leaving all others at
// their prior values. An unknown key, a nil value or an empty string is
// rejected before any state changes; the stored record is untouched on
// failure.
func (c *Client[A]) SetAttribute(ctx context.Context, name, key string, value any) error {
	ctx, span := c.startOp(ctx, "set_attribute", name,
		attribute.String("catalog.attribute", key))
	defer span.End()

	if err := c.schema.ValidateField(key, value); err != nil {
		return c.finishOp(span, "set_attribute", err)
	}
	return c.finishOp(span, "set_attribute", c.backend.SetEntityAttribute(ctx, c.kind, name, key, value))
}

// SetAttributes replaces the full attributes record, validated the same way
// as Create.
func (c *Client[A]) SetAttributes(ctx context.Context, name string, attrs A) error {
	ctx, span := c.startOp(ctx, "set_attributes", name)
	defer span.End()

	rec, err := EncodeRecord(attrs)
	if err != nil {
		return c.finishOp(span, "set_attributes", err)
	}
	if err := c.schema.Validate(rec); err != nil {
		return c.finishOp(span, "set_attributes", err)
	}
	return c.finishOp(span, "set_attributes", c.backend.ReplaceEntityAttributes(ctx, c.kind, name, rec))
}

// Delete removes the entity. Without WithForce, kind-specific deletable-state
// rules apply (tasks must be DISABLED first) and an absent entity yields a
// *NotFoundError. See WithForce for the forced behavior.
func (c *Client[A]) Delete(ctx context.Context, name string, opts ...DeleteOption) error {
	cfg := &deleteConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := c.startOp(ctx, "delete", name,
		attribute.Bool("force", cfg.force))
	defer span.End()

	return c.finishOp(span, "delete", c.backend.DeleteEntity(ctx, c.kind, name, cfg.force))
}

// Status reads the entity's current status without fetching its attributes.
func (c *Client[A]) Status(ctx context.Context, name string) (Status, error) {
	ctx, span := c.startOp(ctx, "status", name)
	defer span.End()

	status, err := c.backend.EntityStatus(ctx, c.kind, name)
	return status, c.finishOp(span, "status", err)
}

func (c *Client[A]) decode(raw *RawEntity) (*Entity[A], error) {
	attrs, err := DecodeRecord[A](raw.Attributes)
	if err != nil {
		return nil, err
	}
	return &Entity[A]{
		Name:        raw.Name,
		Description: raw.Description,
		Attributes:  attrs,
		Status:      raw.Status,
	}, nil
}

// startOp opens a span for one client operation.
func (c *Client[A]) startOp(ctx context.Context, op, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanAttrs := append([]attribute.KeyValue{
		attribute.String("catalog.kind", c.kind.String()),
		attribute.String("catalog.entity", name),
	}, attrs...)
	return c.tracer.Start(ctx, "catalog."+op, trace.WithAttributes(spanAttrs...))
}

// finishOp records the outcome on the span and the operations counter and
// returns err unchanged.
func (c *Client[A]) finishOp(span trace.Span, op string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("catalog operation failed", "op", op, "error", err)
	}
	if c.ops != nil {
		c.ops.Add(context.Background(), 1,
			metric.WithAttributes(
				attribute.String("kind", c.kind.String()),
				attribute.String("op", op),
				attribute.String("outcome", outcome),
			))
	}
	return err
}
