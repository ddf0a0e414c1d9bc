package catalog

import (
	"encoding/json"
	"fmt"
)

// Kind identifies one of the five entity kinds managed by the catalog.
type Kind string

const (
	KindProfile Kind = "profile"
	KindTool    Kind = "tool"
	KindTask    Kind = "task"
	KindAgent   Kind = "agent"
	KindTeam    Kind = "team"
)

// Kinds returns all entity kinds in dependency order: an entity of a later
// kind may reference entities of earlier kinds.
func Kinds() []Kind {
	return []Kind{KindProfile, KindTool, KindTask, KindAgent, KindTeam}
}

// Valid reports whether k is one of the known entity kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindProfile, KindTool, KindTask, KindAgent, KindTeam:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Status is the server-owned enabled/disabled state of an entity. It is
// readable via Fetch or the Status operation and mutated only through
// Enable and Disable.
type Status string

const (
	StatusEnabled  Status = "ENABLED"
	StatusDisabled Status = "DISABLED"
)

// ParseStatus converts the wire form of a status into a Status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusEnabled, StatusDisabled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown entity status %q", s)
}

// Entity is a named catalog entity of kind-specific attribute type A.
//
// Name is the primary key: unique within the kind and immutable after
// creation. Description is optional and mutable. Status is populated on
// entities returned by Fetch and List; it is ignored on Create, where the
// initial status is chosen by create options.
type Entity[A any] struct {
	Name        string
	Description string
	Attributes  A
	Status      Status
}

// Record is the serialized wire form of an attributes struct: a flat JSON
// object keyed by the schema field names.
type Record map[string]any

// EncodeRecord converts an attributes struct into its wire Record via its
// JSON representation.
func EncodeRecord(attrs any) (Record, error) {
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attributes: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to encode attributes: %w", err)
	}
	return rec, nil
}

// DecodeRecord converts a wire Record back into the typed attributes struct A.
// A record produced by EncodeRecord round-trips to an equal value.
func DecodeRecord[A any](rec Record) (A, error) {
	var attrs A
	data, err := json.Marshal(rec)
	if err != nil {
		return attrs, fmt.Errorf("failed to decode attributes: %w", err)
	}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return attrs, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return attrs, nil
}
