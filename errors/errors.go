package errors

import (
	"fmt"
	"strings"
)

// Op indicates which binding operation the error occurred in
type Op string

const (
	OpOpen       Op = "open"        // native constructor
	OpDerive     Op = "derive"      // child handle lookup
	OpAccess     Op = "access"      // getter on a live handle
	OpRelease    Op = "release"     // handle destruction
	OpNativeCall Op = "native_call" // raw dispatch
)

// Kind categorizes the error
type Kind string

const (
	KindOpenFailed      Kind = "open_failed"
	KindNotFound        Kind = "not_found"
	KindInvalidState    Kind = "invalid_state"
	KindUseAfterRelease Kind = "use_after_release"
	KindNative          Kind = "native"
	KindOutOfMemory     Kind = "out_of_memory"
)

// Sentinels for errors.Is matching. Only Kind participates in matching, so a
// bare-Kind sentinel matches every error of that category.
var (
	ErrOpenFailed      = &Error{Kind: KindOpenFailed}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInvalidState    = &Error{Kind: KindInvalidState}
	ErrUseAfterRelease = &Error{Kind: KindUseAfterRelease}
	ErrNative          = &Error{Kind: KindNative}
	ErrOutOfMemory     = &Error{Kind: KindOutOfMemory}
)

// Error is the structured error type used throughout the binding
type Error struct {
	Cause    error
	Op       Op
	Kind     Kind
	Res      string // resource kind: "volume", "file_entry", "attribute"
	Code     int    // native category code, 0 when not from the native layer
	Message  string // native diagnostic, may be empty if the fetch failed
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Res != "" {
		b.WriteString(" on ")
		b.WriteString(e.Res)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Code != 0 || e.Message != "" {
		b.WriteString(": native code ")
		fmt.Fprintf(&b, "%d", e.Code)
		if e.Message != "" {
			b.WriteString(" (")
			b.WriteString(e.Message)
			b.WriteByte(')')
		}
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

// Is reports whether target matches this error. Matching is by Kind only, and
// additionally by Op when the target specifies one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Op == "" || e.Op == t.Op
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Resource sets the resource kind the error relates to
func (b *Builder) Resource(res string) *Builder {
	b.err.Res = res
	return b
}

// Code sets the native category code
func (b *Builder) Code(code int) *Builder {
	b.err.Code = code
	return b
}

// Message sets the native diagnostic message
func (b *Builder) Message(msg string) *Builder {
	b.err.Message = msg
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

// OpenFailed creates an error for a failed native constructor call
func OpenFailed(res string, code int, msg string) *Error {
	return &Error{
		Op:      OpOpen,
		Kind:    KindOpenFailed,
		Res:     res,
		Code:    code,
		Message: msg,
	}
}

// NotFound creates an error for a derive/lookup whose selector did not match
func NotFound(res, selector string) *Error {
	return &Error{
		Op:     OpDerive,
		Kind:   KindNotFound,
		Res:    res,
		Detail: fmt.Sprintf("%s not found", selector),
	}
}

// InvalidState creates an error for an operation on a handle whose lifetime
// preconditions do not hold (released parent, live children on release)
func InvalidState(op Op, res, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidState,
		Res:    res,
		Detail: detail,
	}
}

// UseAfterRelease creates the defensive error returned when an operation
// reaches a released handle
func UseAfterRelease(res string) *Error {
	return &Error{
		Op:     OpAccess,
		Kind:   KindUseAfterRelease,
		Res:    res,
		Detail: "handle already released",
	}
}

// Native creates the catch-all error carrying the native diagnostic
func Native(op Op, code int, msg string) *Error {
	return &Error{
		Op:      op,
		Kind:    KindNative,
		Code:    code,
		Message: msg,
	}
}

// OutOfMemory creates an error for a native allocation failure. Fatal for the
// operation but reported, never process-aborting.
func OutOfMemory(op Op, code int, msg string) *Error {
	return &Error{
		Op:      op,
		Kind:    KindOutOfMemory,
		Code:    code,
		Message: msg,
	}
}
