package catalog

import (
	"fmt"
	"slices"

	"github.com/google/cel-go/cel"
)

// FieldType classifies the wire type of an attribute field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldBool   FieldType = "bool"
	FieldNumber FieldType = "number"
	FieldList   FieldType = "list"
	FieldObject FieldType = "object"
)

// FieldSpec declares the validation rules for one attribute field.
type FieldSpec struct {
	// Type is the expected wire type.
	Type FieldType

	// Required fields must be present and non-empty on create and on full
	// attribute replacement.
	Required bool

	// Enum, when non-empty, restricts string values to the listed set.
	Enum []string

	// Check is an optional CEL expression over the single variable "value".
	// It must evaluate to a boolean; false rejects the value.
	Check string
}

// Schema is the explicit attribute schema table for one entity kind: field
// name to validation rule. Schemas are immutable after construction and safe
// for concurrent use.
type Schema struct {
	kind     Kind
	fields   map[string]FieldSpec
	programs map[string]cel.Program
}

// MustSchema builds a Schema, compiling every CEL check expression up front.
// It panics on an invalid field spec; schemas are package-level declarations
// so a bad expression is a programming error.
func MustSchema(kind Kind, fields map[string]FieldSpec) *Schema {
	s, err := NewSchema(kind, fields)
	if err != nil {
		panic(err)
	}
	return s
}

// NewSchema builds a Schema, compiling every CEL check expression up front.
func NewSchema(kind Kind, fields map[string]FieldSpec) (*Schema, error) {
	env, err := cel.NewEnv(cel.Variable("value", cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	programs := make(map[string]cel.Program)
	for name, spec := range fields {
		if spec.Check == "" {
			continue
		}
		ast, issues := env.Compile(spec.Check)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("invalid check expression for field %q: %w", name, issues.Err())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("failed to build check program for field %q: %w", name, err)
		}
		programs[name] = prg
	}

	return &Schema{kind: kind, fields: fields, programs: programs}, nil
}

// SchemaFor returns the attribute schema table for an entity kind, or nil
// for an unknown kind. Store engines use it to re-validate records
// authoritatively.
func SchemaFor(kind Kind) *Schema {
	switch kind {
	case KindProfile:
		return ProfileSchema
	case KindTool:
		return ToolSchema
	case KindTask:
		return TaskSchema
	case KindAgent:
		return AgentSchema
	case KindTeam:
		return TeamSchema
	}
	return nil
}

// Kind returns the entity kind this schema describes.
func (s *Schema) Kind() Kind { return s.kind }

// Fields returns the field names declared by the schema, sorted.
func (s *Schema) Fields() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks a full attributes record against the schema: every
// required field must be present and non-empty, and every present field must
// satisfy its spec. The returned error carries the kind's domain code.
func (s *Schema) Validate(rec Record) error {
	for name, spec := range s.fields {
		value, ok := rec[name]
		if !ok || value == nil {
			if spec.Required {
				return NewError(s.kind, "validate", CodeFor(s.kind),
					"missing required attribute %q", name)
			}
			continue
		}
		if err := s.checkValue(name, spec, value); err != nil {
			return err
		}
	}
	for name := range rec {
		if _, ok := s.fields[name]; !ok {
			return NewError(s.kind, "validate", CodeFor(s.kind),
				"unknown attribute %q", name)
		}
	}
	return nil
}

// ValidateField checks a single-field update. A nil value or an empty string
// is always rejected: partial updates may only set a field to a concrete
// value, never clear it.
func (s *Schema) ValidateField(key string, value any) error {
	spec, ok := s.fields[key]
	if !ok {
		return NewError(s.kind, "set_attribute", CodeFor(s.kind),
			"unknown attribute %q", key)
	}
	if value == nil {
		return NewError(s.kind, "set_attribute", CodeFor(s.kind),
			"attribute %q cannot be null", key)
	}
	if str, isStr := value.(string); isStr && str == "" {
		return NewError(s.kind, "set_attribute", CodeFor(s.kind),
			"attribute %q cannot be empty", key)
	}
	return s.checkValue(key, spec, value)
}

func (s *Schema) checkValue(name string, spec FieldSpec, value any) error {
	if err := s.checkType(name, spec, value); err != nil {
		return err
	}

	if spec.Required {
		switch v := value.(type) {
		case string:
			if v == "" {
				return NewError(s.kind, "validate", CodeFor(s.kind),
					"required attribute %q cannot be empty", name)
			}
		case []any:
			if len(v) == 0 {
				return NewError(s.kind, "validate", CodeFor(s.kind),
					"required attribute %q cannot be empty", name)
			}
		}
	}

	if len(spec.Enum) > 0 {
		str, ok := value.(string)
		if !ok || !slices.Contains(spec.Enum, str) {
			return NewError(s.kind, "validate", CodeFor(s.kind),
				"attribute %q must be one of %v, got %v", name, spec.Enum, value)
		}
	}

	if prg, ok := s.programs[name]; ok {
		out, _, err := prg.Eval(map[string]any{"value": value})
		if err != nil {
			return NewError(s.kind, "validate", CodeFor(s.kind),
				"attribute %q failed validation", name).WithCause(err)
		}
		if pass, ok := out.Value().(bool); !ok || !pass {
			return NewError(s.kind, "validate", CodeFor(s.kind),
				"attribute %q rejected by rule %q", name, s.fields[name].Check)
		}
	}

	return nil
}

func (s *Schema) checkType(name string, spec FieldSpec, value any) error {
	ok := false
	switch spec.Type {
	case FieldString:
		_, ok = value.(string)
	case FieldBool:
		_, ok = value.(bool)
	case FieldNumber:
		// JSON decoding yields float64 for all numbers.
		switch value.(type) {
		case float64, int, int64:
			ok = true
		}
	case FieldList:
		_, ok = value.([]any)
	case FieldObject:
		_, ok = value.(map[string]any)
	}
	if !ok {
		return NewError(s.kind, "validate", CodeFor(s.kind),
			"attribute %q has wrong type: expected %s, got %T", name, spec.Type, value)
	}
	return nil
}
