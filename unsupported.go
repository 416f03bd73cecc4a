//go:build !linux || !cgo

package posixacl

import "unsafe"

// Handle owns a native ACL resource. This build has no POSIX ACL
// support, so no Handle is ever produced; the type exists to keep the
// package API uniform across platforms.
type Handle struct{}

// Free releases the native ACL. No-op here: handles cannot be
// constructed on this build.
func (h *Handle) Free() {}

// Pointer returns nil: no native resource exists on this build.
func (h *Handle) Pointer() unsafe.Pointer { return nil }

// ToHandle fails with KindUnsupportedPlatform on this build.
func (a *PosixACL) ToHandle() (*Handle, error) {
	return nil, unsupported("acl_init")
}

// FromHandle fails with KindUnsupportedPlatform on this build.
func FromHandle(h *Handle) (*PosixACL, error) {
	return nil, unsupported("acl_get_entry")
}

func readNative(path string, dfault bool) ([]Entry, error) {
	return nil, unsupported("acl_get_file")
}

func writeNative(path string, entries []Entry, dfault bool) error {
	return unsupported("acl_set_file")
}

func unsupported(op string) *Error {
	return &Error{Kind: KindUnsupportedPlatform, Op: op}
}
