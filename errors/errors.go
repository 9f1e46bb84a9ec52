package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in a run the error occurred
type Phase string

const (
	PhaseCLI     Phase = "cli"     // command line handling
	PhaseLoad    Phase = "load"    // reading and parsing the config document
	PhaseResolve Phase = "resolve" // document to ruleset
	PhaseRead    Phase = "read"    // reading the target binary
	PhaseDecode  Phase = "decode"  // binary to module
)

// Kind categorizes the error. The set is closed.
type Kind uint8

const (
	KindNoSubcommand Kind = iota + 1
	KindConfigOpenFailed
	KindConfigParseFailed
	KindConfigInvalid
	KindConfigMissingFile
	KindFileTypeMismatch
	KindModuleTypeMismatch
	KindPresetTypeMismatch
	KindBinaryOpenFailed
	KindArtifactDecodeFailed
)

var kindInfo = map[Kind]struct {
	name    string
	message string
	phase   Phase
}{
	KindNoSubcommand:         {"no_subcommand", "No subcommand provided.", PhaseCLI},
	KindConfigOpenFailed:     {"config_open_failed", "Failed to open configuration file.", PhaseLoad},
	KindConfigParseFailed:    {"config_parse_failed", "Failed to parse configuration file.", PhaseLoad},
	KindConfigInvalid:        {"config_invalid", "Config is invalid.", PhaseResolve},
	KindConfigMissingFile:    {"config_missing_file", "Config missing file path to chisel.", PhaseResolve},
	KindFileTypeMismatch:     {"file_type_mismatch", "Entry 'file' does not map to a string.", PhaseResolve},
	KindModuleTypeMismatch:   {"module_type_mismatch", "An entry 'module' does not point to a key-value map.", PhaseResolve},
	KindPresetTypeMismatch:   {"preset_type_mismatch", "A field 'preset' belonging to a module is not a string", PhaseResolve},
	KindBinaryOpenFailed:     {"binary_open_failed", "Failed to open wasm binary.", PhaseRead},
	KindArtifactDecodeFailed: {"artifact_decode_failed", "Failed to deserialize the wasm binary.", PhaseDecode},
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Message returns the user facing text for the kind.
func (k Kind) Message() string {
	if info, ok := kindInfo[k]; ok {
		return info.message
	}
	return "Unknown error."
}

// Phase returns the stage that raises errors of this kind.
func (k Kind) Phase() Phase {
	return kindInfo[k].phase
}

// Error lets a Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return k.Message()
}

// Error is the structured error type used throughout chisel
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(e.Kind.Message())

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Message returns the display text without path, detail or cause.
func (e *Error) Message() string {
	return e.Kind.Message()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Targets may be a Kind or
// another *Error with the same Kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder. The phase is taken from the kind.
func New(kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: kind.Phase(),
			Kind:  kind,
		},
	}
}

// Path sets the ruleset path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
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

// Wrap creates an error of the given kind around a cause
func Wrap(kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  kind.Phase(),
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// TypeMismatch creates a resolution error for a node of the wrong shape
func TypeMismatch(kind Kind, path []string, got string) *Error {
	return &Error{
		Phase:  kind.Phase(),
		Kind:   kind,
		Path:   path,
		Detail: fmt.Sprintf("got %s", got),
	}
}

// KindOf returns the kind of err, or zero when err is not an *Error.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0
		}
		err = u.Unwrap()
	}
	return 0
}

// Is reports whether any error in err's chain matches target.
// It forwards to the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// It forwards to the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
