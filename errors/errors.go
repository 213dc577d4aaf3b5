package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLayout Phase = "layout" // layout construction
	PhaseValue  Phase = "value"  // value access and mutation
	PhaseStream Phase = "stream" // structured stream walking
	PhaseSchema Phase = "schema" // schema to layout conversion
	PhaseParse  Phase = "parse"  // type expression parsing
)

// Kind categorizes the error
type Kind string

const (
	KindDuplicateName       Kind = "duplicate_name"
	KindTypeMismatch        Kind = "type_mismatch"
	KindOutOfBounds         Kind = "out_of_bounds"
	KindFieldUnknown        Kind = "field_unknown"
	KindInvalidVariant      Kind = "invalid_variant"
	KindInvalidEnum         Kind = "invalid_enum"
	KindOverflow            Kind = "overflow"
	KindUnsupported         Kind = "unsupported"
	KindInvalidData         Kind = "invalid_data"
	KindStaleReference      Kind = "stale_reference"
	KindArrayLengthMismatch Kind = "array_length_mismatch"
	KindKeyNotExists        Kind = "key_not_exists"
	KindInvalidType         Kind = "invalid_type"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Layout string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.Layout != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.Layout != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", layout ")
			b.WriteString(e.Layout)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("layout ")
			b.WriteString(e.Layout)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Layout != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Layout sets the layout description
func (b *Builder) Layout(l string) *Builder {
	b.err.Layout = l
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// DuplicateName creates a duplicate field, alternative or enum name error
func DuplicateName(phase Phase, path []string, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateName,
		Path:   path,
		Detail: fmt.Sprintf("name %q declared more than once", name),
		Value:  name,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, layout string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Layout: layout,
	}
}

// InvalidDiscriminant creates an invalid discriminant error for variants
func InvalidDiscriminant(phase Phase, path []string, disc uint64, maxValid uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d out of range (max %d)", disc, maxValid),
		Value:  disc,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Layout: target,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, path []string, value any, enumLayout string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Path:   path,
		Layout: enumLayout,
		Detail: fmt.Sprintf("invalid enum value %v for %s", value, enumLayout),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// StaleReference creates an error for a reference whose generation is behind its value
func StaleReference(phase Phase, path []string, captured, live uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStaleReference,
		Path:   path,
		Detail: fmt.Sprintf("reference generation %d, value generation %d", captured, live),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
