package posixacl

import (
	"fmt"
	"slices"
)

// maskPerm is the union of the permissions of GroupObj and all named
// User and Group entries; the Mask entry caps their effective rights.
func (a *PosixACL) maskPerm() Perm {
	var p Perm
	for _, e := range a.entries {
		switch e.Qual.tag {
		case TagGroupObj, TagUser, TagGroup:
			p |= e.Perm
		}
	}
	return p
}

// minimal reports whether the ACL carries only the three traditional
// permission classes, with no named entries and no explicit Mask.
func (a *PosixACL) minimal() bool {
	for _, e := range a.entries {
		switch e.Qual.tag {
		case TagUser, TagGroup, TagMask:
			return false
		}
	}
	return true
}

// FixMask recomputes the Mask entry as the union of GroupObj and all
// named User and Group entries, inserting one if absent.
//
// Usually there is no need to call this directly: write operations
// inject a missing Mask automatically. FixMask is for callers that
// set an explicit Mask earlier and want it brought back in line.
func (a *PosixACL) FixMask() {
	a.Set(Mask, a.maskPerm())
}

// Validate checks the POSIX structural rules on the ACL as-is:
// UserObj, GroupObj and Other must each be present exactly once, all
// qualifiers must be unique, permission bits must stay within the rwx
// domain, and a non-minimal ACL must carry a Mask entry.
//
// Write operations call this automatically after mask injection, so a
// model that merely lacks a Mask still writes successfully.
func (a *PosixACL) Validate() error {
	return validateEntries(a.entries)
}

func validateEntries(entries []Entry) error {
	var haveUserObj, haveGroupObj, haveOther, haveMask, named bool
	seen := make(map[Qualifier]bool, len(entries))
	for _, e := range entries {
		switch e.Qual.tag {
		case TagUserObj:
			haveUserObj = true
		case TagGroupObj:
			haveGroupObj = true
		case TagOther:
			haveOther = true
		case TagMask:
			haveMask = true
		case TagUser, TagGroup:
			named = true
		default:
			return &Error{Kind: KindInvalidArgument, Op: "validate", Msg: "entry with undefined tag"}
		}
		if e.Perm&^RWX != 0 {
			return &Error{Kind: KindInvalidArgument, Op: "validate",
				Msg: fmt.Sprintf("permission bits %#x outside the rwx domain", uint32(e.Perm))}
		}
		if seen[e.Qual] {
			return validationErr("duplicate entry " + e.Qual.String())
		}
		seen[e.Qual] = true
	}

	if !haveUserObj {
		return validationErr("missing mandatory user:: entry")
	}
	if !haveGroupObj {
		return validationErr("missing mandatory group:: entry")
	}
	if !haveOther {
		return validationErr("missing mandatory other:: entry")
	}
	if named && !haveMask {
		return validationErr("named entries present without mask:: entry")
	}
	return nil
}

// exportEntries builds the canonical entry list handed to the OS,
// injecting a computed Mask when the ACL is non-minimal and the
// caller never set one. The model itself is not mutated; a failed
// export leaves both the model and any on-disk state untouched.
func (a *PosixACL) exportEntries() ([]Entry, error) {
	entries := slices.Clone(a.entries)
	if !a.minimal() {
		if _, ok := a.Get(Mask); !ok {
			entries = append(entries, Entry{Qual: Mask, Perm: a.maskPerm()})
		}
	}
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	slices.SortStableFunc(entries, func(x, y Entry) int { return x.Qual.Compare(y.Qual) })
	return entries, nil
}
