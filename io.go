package posixacl

import (
	"errors"
	"os"
	"syscall"
)

// ReadACL reads the effective access ACL of path.
//
// It is NOT an error if path has no explicit ACL: the OS synthesises
// a minimal ACL from the traditional permission bits, and the result
// is indistinguishable from an explicitly set minimal ACL.
//
// Errors are KindIo with the errno preserved, or
// KindUnsupportedPlatform on builds without ACL support.
func ReadACL(path string) (*PosixACL, error) {
	entries, err := readNative(path, false)
	if err != nil {
		return nil, err
	}
	return &PosixACL{entries: entries}, nil
}

// ReadDefaultACL reads the default ACL of a directory, the ACL that
// seeds ACLs of children created within it. A directory without a
// default ACL yields an empty PosixACL.
//
// A non-directory path fails with KindIo and ENOTDIR before any ACL
// call reaches the OS.
func ReadDefaultACL(path string) (*PosixACL, error) {
	if err := mustDir("acl_get_file", path); err != nil {
		return nil, err
	}
	entries, err := readNative(path, true)
	if err != nil {
		return nil, err
	}
	return &PosixACL{entries: entries}, nil
}

// WriteACL validates this ACL and applies it to path's access ACL,
// replacing it whole. A missing Mask entry is computed and injected
// when the ACL is non-minimal. Validation runs before any OS call: a
// KindValidationFailed error never leaves on-disk state touched, and
// the OS primitive applies the new ACL atomically. The model remains
// usable afterwards.
func (a *PosixACL) WriteACL(path string) error {
	entries, err := a.exportEntries()
	if err != nil {
		return err
	}
	return writeNative(path, entries, false)
}

// WriteDefaultACL is WriteACL for a directory's default ACL. A
// non-directory path fails with KindIo and ENOTDIR before any OS
// mutation.
func (a *PosixACL) WriteDefaultACL(path string) error {
	if err := mustDir("acl_set_file", path); err != nil {
		return err
	}
	entries, err := a.exportEntries()
	if err != nil {
		return err
	}
	return writeNative(path, entries, true)
}

// UpdatePerm reads the access ACL of path, replaces the User(uid)
// entry with the union of perms, recalculates the Mask entry and
// writes the ACL back. Passing no perms removes the entry instead.
func UpdatePerm(path string, uid uint32, perms ...Perm) error {
	a, err := ReadACL(path)
	if err != nil {
		return err
	}

	if len(perms) == 0 {
		// clearing an entry that was never set is not an error here
		if err = a.Remove(User(uid)); err != nil {
			var e *Error
			if !errors.As(err, &e) || e.Kind != KindNotFound {
				return err
			}
		}
	} else {
		var p Perm
		for _, perm := range perms {
			p |= perm
		}
		a.Set(User(uid), p)
	}

	a.FixMask()
	return a.WriteACL(path)
}

// mustDir rejects non-directories ahead of default-ACL operations,
// with the errno the kernel would eventually report.
func mustDir(op, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return ioErr(op, path, err)
	}
	if !fi.IsDir() {
		return &Error{Kind: KindIo, Op: op, Path: path, Errno: syscall.ENOTDIR}
	}
	return nil
}
