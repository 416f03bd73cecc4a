package posixacl

import (
	"errors"
	"syscall"
)

// Kind is the broad category of an [Error].
type Kind uint8

const (
	// KindIo wraps an OS-level failure such as permission denied,
	// no such file, or ACLs not supported on the filesystem.
	KindIo Kind = iota
	// KindInvalidArgument reports qualifier or permission misuse,
	// including foreign tag kinds returned by the OS.
	KindInvalidArgument
	// KindValidationFailed reports a structural invariant violation
	// detected before an ACL is exported or persisted.
	KindValidationFailed
	// KindNotFound reports removal of an entry that does not exist.
	KindNotFound
	// KindUnsupportedPlatform reports that this build has no POSIX
	// ACL support at all.
	KindUnsupportedPlatform
)

func (k Kind) String() string {
	switch k {
	case KindIo:
		return "io error"
	case KindInvalidArgument:
		return "invalid argument"
	case KindValidationFailed:
		return "validation failed"
	case KindNotFound:
		return "entry not found"
	case KindUnsupportedPlatform:
		return "posix acls unsupported on this platform"
	default:
		return "unknown"
	}
}

// Error is returned from every fallible operation in this package.
// Op names the libacl function or model operation that failed, the
// way setfacl-style tooling reports it.
type Error struct {
	Kind Kind
	Op   string
	// Path is the file the operation applied to, empty for purely
	// in-memory failures.
	Path string
	// Errno preserves the OS error code from the failing call site,
	// zero when the failure did not originate from an OS call.
	Errno syscall.Errno
	// Msg carries extra detail for internal failures.
	Msg string
}

func (e *Error) Error() string {
	detail := e.Msg
	if e.Errno != 0 {
		detail = e.Errno.Error()
		if e.Msg != "" {
			detail += " (" + e.Msg + ")"
		}
	}
	if detail == "" {
		detail = e.Kind.String()
	}
	if e.Path != "" {
		return e.Op + " " + e.Path + ": " + detail
	}
	return e.Op + ": " + detail
}

// Unwrap exposes the underlying [syscall.Errno] so that callers can
// match it with errors.Is, e.g. errors.Is(err, syscall.ENOTDIR).
func (e *Error) Unwrap() error {
	if e.Errno == 0 {
		return nil
	}
	return e.Errno
}

// ioErr translates an OS call failure at the call site, preserving
// the errno for callers needing fine-grained recovery.
func ioErr(op, path string, err error) *Error {
	var errno syscall.Errno
	errors.As(err, &errno)
	return &Error{Kind: KindIo, Op: op, Path: path, Errno: errno}
}

func validationErr(msg string) *Error {
	return &Error{Kind: KindValidationFailed, Op: "validate", Msg: msg}
}
