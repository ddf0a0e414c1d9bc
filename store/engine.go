package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/agentcat/sdk/catalog"
)

// Runner executes a conversation turn for a team. Orchestration is opaque to
// the store: the runner receives the team document after the store has
// verified that the team exists, is enabled, and that its member references
// resolve.
type Runner interface {
	Run(ctx context.Context, team *catalog.RawEntity, prompt string, params map[string]any) (*catalog.RunResponse, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, team *catalog.RawEntity, prompt string, params map[string]any) (*catalog.RunResponse, error)

func (f RunnerFunc) Run(ctx context.Context, team *catalog.RawEntity, prompt string, params map[string]any) (*catalog.RunResponse, error) {
	return f(ctx, team, prompt, params)
}

// Option configures a Store.
type Option func(*Store)

// WithRunner installs the orchestrator hook used by Run. Without one, Run
// calls are rejected with the team domain code.
func WithRunner(r Runner) Option {
	return func(s *Store) {
		s.runner = r
	}
}

// WithStoreLogger sets a structured logger for the store engine. If not
// provided, slog.Default() is used.
func WithStoreLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store implements catalog.Backend on top of a document store. It is the
// authoritative side of the catalog contract: every rule a client may have
// skipped locally is enforced again here.
//
// A mutex serializes read-modify-write cycles so the drivers can stay plain
// key-value stores. Writers on different Store instances pointed at the same
// backing data race with last-writer-wins semantics, which matches the
// catalog's replace behavior.
type Store struct {
	mu     sync.Mutex
	docs   docStore
	runner Runner
	logger *slog.Logger
}

func newStore(docs docStore, opts ...Option) *Store {
	s := &Store{
		docs:   docs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEntity implements catalog.Backend.
func (s *Store) CreateEntity(ctx context.Context, kind catalog.Kind, name, description string, attrs catalog.Record, enabled, replace bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema := catalog.SchemaFor(kind)
	if schema == nil {
		return fmt.Errorf("unknown entity kind %q", kind)
	}
	if err := schema.Validate(attrs); err != nil {
		return err
	}

	existing, err := s.docs.get(ctx, kind.String(), name)
	if err != nil {
		return err
	}
	if existing != nil && !replace {
		return catalog.NewError(kind, "create", catalog.CodeFor(kind),
			"%s %q already exists", kind, name)
	}

	status := catalog.StatusEnabled
	if !enabled {
		status = catalog.StatusDisabled
	}
	doc := &document{
		Name:        name,
		Description: description,
		Attributes:  attrs,
		Status:      status,
	}

	s.logger.Debug("creating entity", "kind", kind.String(), "name", name, "replace", replace)
	return s.docs.put(ctx, kind.String(), name, doc)
}

// FetchEntity implements catalog.Backend.
func (s *Store) FetchEntity(ctx context.Context, kind catalog.Kind, name string) (*catalog.RawEntity, error) {
	doc, err := s.docs.get(ctx, kind.String(), name)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, catalog.NewNotFoundError(kind, name)
	}
	return doc.raw(), nil
}

// ListEntities implements catalog.Backend. The pattern is evaluated here, on
// the store side, as a regular expression over entity names.
func (s *Store) ListEntities(ctx context.Context, kind catalog.Kind, pattern string) (catalog.Rows, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, catalog.NewError(kind, "list", catalog.ErrCodeInvalidRegexp,
				"invalid name pattern: %v", err)
		}
	}

	docs, err := s.docs.scan(ctx, kind.String())
	if err != nil {
		return nil, err
	}

	matched := docs[:0:0]
	for _, doc := range docs {
		if re == nil || re.MatchString(doc.Name) {
			matched = append(matched, doc)
		}
	}
	return &docRows{docs: matched}, nil
}

// SetEntityStatus implements catalog.Backend.
func (s *Store) SetEntityStatus(ctx context.Context, kind catalog.Kind, name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.docs.get(ctx, kind.String(), name)
	if err != nil {
		return err
	}
	if doc == nil {
		return catalog.NewNotFoundError(kind, name)
	}

	target := catalog.StatusEnabled
	op := "enable"
	if !enabled {
		target = catalog.StatusDisabled
		op = "disable"
	}

	if doc.Status == target && rulesFor(kind).strictToggle {
		return catalog.NewError(kind, op, catalog.CodeFor(kind),
			"%s %q is already %s", kind, name, target)
	}

	doc.Status = target
	return s.docs.put(ctx, kind.String(), name, doc)
}

// SetEntityAttribute implements catalog.Backend. The update is all-or-
// nothing: a rejected key or value leaves the stored record untouched.
func (s *Store) SetEntityAttribute(ctx context.Context, kind catalog.Kind, name, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.docs.get(ctx, kind.String(), name)
	if err != nil {
		return err
	}
	if doc == nil {
		return catalog.NewNotFoundError(kind, name)
	}

	normalized, err := normalizeValue(value)
	if err != nil {
		return catalog.NewError(kind, "set_attribute", catalog.CodeFor(kind),
			"attribute %q has an unserializable value", key).WithCause(err)
	}
	if err := catalog.SchemaFor(kind).ValidateField(key, normalized); err != nil {
		return err
	}

	if doc.Attributes == nil {
		doc.Attributes = catalog.Record{}
	}
	doc.Attributes[key] = normalized
	return s.docs.put(ctx, kind.String(), name, doc)
}

// ReplaceEntityAttributes implements catalog.Backend.
func (s *Store) ReplaceEntityAttributes(ctx context.Context, kind catalog.Kind, name string, attrs catalog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.docs.get(ctx, kind.String(), name)
	if err != nil {
		return err
	}
	if doc == nil {
		return catalog.NewNotFoundError(kind, name)
	}
	if err := catalog.SchemaFor(kind).Validate(attrs); err != nil {
		return err
	}

	doc.Attributes = attrs
	return s.docs.put(ctx, kind.String(), name, doc)
}

// DeleteEntity implements catalog.Backend.
func (s *Store) DeleteEntity(ctx context.Context, kind catalog.Kind, name string, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules := rulesFor(kind)

	doc, err := s.docs.get(ctx, kind.String(), name)
	if err != nil {
		return err
	}
	if doc == nil {
		if force {
			if rules.forceDeleteAbsentOK {
				return nil
			}
			return catalog.NewError(kind, "delete", catalog.CodeFor(kind),
				"%s %q does not exist", kind, name)
		}
		return catalog.NewNotFoundError(kind, name)
	}

	if !force && rules.requireDisabledDelete && doc.Status == catalog.StatusEnabled {
		return catalog.NewError(kind, "delete", catalog.CodeFor(kind),
			"%s %q must be disabled before it can be deleted", kind, name)
	}

	s.logger.Debug("deleting entity", "kind", kind.String(), "name", name, "force", force)
	return s.docs.delete(ctx, kind.String(), name)
}

// EntityStatus implements catalog.Backend.
func (s *Store) EntityStatus(ctx context.Context, kind catalog.Kind, name string) (catalog.Status, error) {
	doc, err := s.docs.get(ctx, kind.String(), name)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", catalog.NewNotFoundError(kind, name)
	}
	return doc.Status, nil
}

// Run implements catalog.Backend. Referential integrity is checked here,
// lazily: member agents, their profiles and their tasks must exist at run
// time even though they were allowed to dangle at creation time.
func (s *Store) Run(ctx context.Context, team, prompt string, params map[string]any) (*catalog.RunResponse, error) {
	doc, err := s.docs.get(ctx, catalog.KindTeam.String(), team)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, catalog.NewNotFoundError(catalog.KindTeam, team)
	}
	if doc.Status != catalog.StatusEnabled {
		return nil, catalog.NewError(catalog.KindTeam, "run", catalog.ErrCodeTeam,
			"team %q is disabled", team)
	}

	conversationID, _ := params[catalog.ParamConversationID].(string)
	if conversationID == "" {
		return nil, catalog.NewError(catalog.KindTeam, "run", catalog.ErrCodeTeam,
			"run requires a non-empty %q parameter", catalog.ParamConversationID)
	}

	if err := s.resolveMembers(ctx, team, doc); err != nil {
		return nil, err
	}

	if s.runner == nil {
		return nil, catalog.NewError(catalog.KindTeam, "run", catalog.ErrCodeTeam,
			"no orchestrator is configured for this store")
	}

	s.logger.Debug("running team", "team", team, "conversation_id", conversationID)
	return s.runner.Run(ctx, doc.raw(), prompt, params)
}

// resolveMembers verifies the team's dangling references: each member agent
// and task, and each agent's profile.
func (s *Store) resolveMembers(ctx context.Context, team string, doc *document) error {
	attrs, err := catalog.DecodeRecord[catalog.TeamAttributes](doc.Attributes)
	if err != nil {
		return err
	}

	for _, member := range attrs.Agents {
		agentDoc, err := s.docs.get(ctx, catalog.KindAgent.String(), member.Name)
		if err != nil {
			return err
		}
		if agentDoc == nil {
			return catalog.NewError(catalog.KindTeam, "run", catalog.ErrCodeTeam,
				"team %q references missing agent %q", team, member.Name)
		}

		taskDoc, err := s.docs.get(ctx, catalog.KindTask.String(), member.Task)
		if err != nil {
			return err
		}
		if taskDoc == nil {
			return catalog.NewError(catalog.KindTeam, "run", catalog.ErrCodeTeam,
				"team %q references missing task %q", team, member.Task)
		}

		agentAttrs, err := catalog.DecodeRecord[catalog.AgentAttributes](agentDoc.Attributes)
		if err != nil {
			return err
		}
		profileDoc, err := s.docs.get(ctx, catalog.KindProfile.String(), agentAttrs.ProfileName)
		if err != nil {
			return err
		}
		if profileDoc == nil {
			return catalog.NewError(catalog.KindTeam, "run", catalog.ErrCodeTeam,
				"agent %q references missing profile %q", member.Name, agentAttrs.ProfileName)
		}
	}
	return nil
}

// CreateCredential implements catalog.Backend. Only the credential name and
// username are persisted by the reference drivers; the secret is accepted
// and discarded, standing in for an external secret manager.
func (s *Store) CreateCredential(ctx context.Context, cred catalog.Credential, replace bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cred.Name == "" {
		return catalog.NewError("", "create_credential", catalog.ErrCodeCredential,
			"credential name is required")
	}

	existing, err := s.docs.get(ctx, credentialCollection, cred.Name)
	if err != nil {
		return err
	}
	if existing != nil && !replace {
		return catalog.NewError("", "create_credential", catalog.ErrCodeCredential,
			"credential %q already exists", cred.Name)
	}

	doc := &document{
		Name:       cred.Name,
		Attributes: catalog.Record{"username": cred.Username},
	}
	return s.docs.put(ctx, credentialCollection, cred.Name, doc)
}

// DropCredential implements catalog.Backend.
func (s *Store) DropCredential(ctx context.Context, name string, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.docs.get(ctx, credentialCollection, name)
	if err != nil {
		return err
	}
	if existing == nil {
		if force {
			return nil
		}
		return catalog.NewError("", "drop_credential", catalog.ErrCodeCredential,
			"credential %q does not exist", name)
	}
	return s.docs.delete(ctx, credentialCollection, name)
}

// Close implements catalog.Backend.
func (s *Store) Close() error {
	return s.docs.close()
}

// docRows streams scanned documents to the client as catalog rows.
type docRows struct {
	docs    []*document
	idx     int
	current *catalog.RawEntity
	closed  bool
}

func (r *docRows) Next() bool {
	if r.closed || r.idx >= len(r.docs) {
		return false
	}
	r.current = r.docs[r.idx].raw()
	r.idx++
	return true
}

func (r *docRows) Entity() *catalog.RawEntity { return r.current }

func (r *docRows) Err() error { return nil }

func (r *docRows) Close() error {
	r.closed = true
	return nil
}

// normalizeValue pushes a value through its JSON representation so stored
// attribute values always use the wire types (float64 numbers, []any lists).
func normalizeValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
