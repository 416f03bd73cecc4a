// Package posixacl implements structured manipulation of POSIX access
// control lists via libacl.
//
// A [PosixACL] is an in-memory mapping from [Qualifier] to [Perm].
// Mutations are purely in-memory; structural rules are enforced and
// the magic Mask entry computed when the ACL is exported or written
// to a path. Entries iterate in insertion order, export re-sorts them
// into canonical POSIX order.
//
// A PosixACL and any [Handle] derived from it are single-owner
// objects: they hold no internal locks and must not be shared between
// goroutines without external synchronisation. Distinct instances for
// the same path are independent until written.
package posixacl

import (
	"iter"
	"slices"
	"strings"
)

// PosixACL is the ACL of a file: an insertion-ordered collection of
// entries keyed by qualifier.
type PosixACL struct {
	entries []Entry
}

// New converts a file mode ("chmod" number) into a minimal ACL
// containing UserObj, GroupObj and Other entries. This is the primary
// constructor. Modes are usually written in octal, e.g. New(0o644);
// bits higher than 9 (setuid flag, etc) are ignored.
func New(fileMode uint32) *PosixACL {
	a := NewEmpty()
	a.Set(UserObj, Perm(fileMode>>6)&RWX)
	a.Set(GroupObj, Perm(fileMode>>3)&RWX)
	a.Set(Other, Perm(fileMode)&RWX)
	return a
}

// NewEmpty creates an ACL with no entries. NB! Empty ACLs do not pass
// [PosixACL.Validate] until the three mandatory entries are set.
func NewEmpty() *PosixACL {
	return &PosixACL{entries: make([]Entry, 0, 6)}
}

// Get returns the permission set of the entry matching qual exactly,
// and whether such an entry exists. Get has no side effects.
func (a *PosixACL) Get(qual Qualifier) (Perm, bool) {
	for _, e := range a.entries {
		if e.Qual == qual {
			return e.Perm, true
		}
	}
	return 0, false
}

// Set inserts an entry for qual, or overwrites the permissions of the
// existing entry with the same qualifier. Set never fails and makes
// no OS call.
func (a *PosixACL) Set(qual Qualifier, perm Perm) {
	for i, e := range a.entries {
		if e.Qual == qual {
			a.entries[i].Perm = perm
			return
		}
	}
	a.entries = append(a.entries, Entry{Qual: qual, Perm: perm})
}

// Remove deletes the entry matching qual exactly, failing with
// KindNotFound if no such entry exists.
//
// Removing a mandatory UserObj, GroupObj or Other entry is permitted
// at this point; the violation surfaces as KindValidationFailed when
// the ACL is exported or written.
func (a *PosixACL) Remove(qual Qualifier) error {
	for i, e := range a.entries {
		if e.Qual == qual {
			a.entries = slices.Delete(a.entries, i, i+1)
			return nil
		}
	}
	return &Error{Kind: KindNotFound, Op: "remove", Msg: "no entry matching " + qual.String()}
}

// Entries returns a copy of all entries in insertion order.
func (a *PosixACL) Entries() []Entry {
	return slices.Clone(a.entries)
}

// All returns an iterator over (qualifier, permission) pairs in
// insertion order. The sequence is finite and restartable.
func (a *PosixACL) All() iter.Seq2[Qualifier, Perm] {
	return func(yield func(Qualifier, Perm) bool) {
		for _, e := range a.entries {
			if !yield(e.Qual, e.Perm) {
				return
			}
		}
	}
}

// Canonical returns a copy of all entries sorted into the canonical
// POSIX order used for export: UserObj, User (ascending id),
// GroupObj, Group (ascending id), Mask, Other.
func (a *PosixACL) Canonical() []Entry {
	c := slices.Clone(a.entries)
	slices.SortStableFunc(c, func(x, y Entry) int { return x.Qual.Compare(y.Qual) })
	return c
}

// Equal reports whether a and o contain the same entries, regardless
// of insertion order.
func (a *PosixACL) Equal(o *PosixACL) bool {
	return slices.Equal(a.Canonical(), o.Canonical())
}

// String renders the ACL as getfacl(1)-style long text with numeric
// ids, one entry per line in canonical order.
func (a *PosixACL) String() string {
	var sb strings.Builder
	for _, e := range a.Canonical() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
