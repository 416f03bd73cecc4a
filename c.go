//go:build linux && cgo

package posixacl

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"
)

//#include <stdlib.h>
//#include <sys/acl.h>
//#include <acl/libacl.h>
//#cgo linux LDFLAGS: -lacl
import "C"

// Handle owns exactly one native acl_t for its entire lifetime. It is
// never aliased: ownership moves into a Handle when one is returned,
// and out of it when the Handle is consumed by [FromHandle]. The val
// pointer can be passed to other code calling into libacl directly.
type Handle struct {
	val   C.acl_t
	freed bool
}

// Free releases the native ACL. Free panics when called twice.
func (h *Handle) Free() {
	if h.freed {
		panic("acl already freed")
	}
	C.acl_free(unsafe.Pointer(h.val))
	h.freed = true
}

// Pointer returns the owned acl_t for direct libacl interop. The
// Handle retains ownership; do not free the returned pointer.
func (h *Handle) Pointer() unsafe.Pointer {
	if h.freed {
		panic("acl already freed")
	}
	return unsafe.Pointer(h.val)
}

// ToHandle exports the ACL into a freshly allocated native acl_t,
// with the same mask injection and validation as [PosixACL.WriteACL].
// Ownership of the resource transfers to the returned Handle; the
// model remains usable and independent. The caller must eventually
// call Free, or hand the Handle back to [FromHandle].
func (a *PosixACL) ToHandle() (*Handle, error) {
	entries, err := a.exportEntries()
	if err != nil {
		return nil, err
	}
	return exportHandle(entries)
}

// FromHandle reconstructs a PosixACL from a native handle, consuming
// it. The handle is released before FromHandle returns and must not
// be used afterwards. Foreign tag kinds in the native ACL fail with
// KindInvalidArgument.
func FromHandle(h *Handle) (*PosixACL, error) {
	defer h.Free()
	entries, err := h.entries()
	if err != nil {
		return nil, err
	}
	return &PosixACL{entries: entries}, nil
}

func (t Tag) native() (C.acl_tag_t, bool) {
	switch t {
	case TagUserObj:
		return C.ACL_USER_OBJ, true
	case TagUser:
		return C.ACL_USER, true
	case TagGroupObj:
		return C.ACL_GROUP_OBJ, true
	case TagGroup:
		return C.ACL_GROUP, true
	case TagMask:
		return C.ACL_MASK, true
	case TagOther:
		return C.ACL_OTHER, true
	default:
		return C.ACL_UNDEFINED_TAG, false
	}
}

func tagFromNative(ct C.acl_tag_t) Tag {
	switch ct {
	case C.ACL_USER_OBJ:
		return TagUserObj
	case C.ACL_USER:
		return TagUser
	case C.ACL_GROUP_OBJ:
		return TagGroupObj
	case C.ACL_GROUP:
		return TagGroup
	case C.ACL_MASK:
		return TagMask
	case C.ACL_OTHER:
		return TagOther
	default:
		return TagUndefined
	}
}

func readNative(path string, dfault bool) ([]Entry, error) {
	t := C.acl_type_t(C.ACL_TYPE_ACCESS)
	if dfault {
		t = C.ACL_TYPE_DEFAULT
	}

	h, err := aclGetFile(path, t)
	if err != nil {
		return nil, err
	}
	// free acl on return if get is successful
	defer h.Free()

	return h.entries()
}

func writeNative(path string, entries []Entry, dfault bool) error {
	t := C.acl_type_t(C.ACL_TYPE_ACCESS)
	if dfault {
		t = C.ACL_TYPE_DEFAULT
	}

	h, err := exportHandle(entries)
	if err != nil {
		return err
	}
	defer h.Free()

	return h.setFile(path, t)
}

func aclGetFile(path string, t C.acl_type_t) (*Handle, error) {
	p := C.CString(path)
	a, err := C.acl_get_file(p, t)
	C.free(unsafe.Pointer(p))

	if a == nil {
		// a missing ACL is not an error; stand in an empty native acl.
		// Only reachable for ACL_TYPE_DEFAULT: for access reads libacl
		// synthesises a minimal ACL from the mode bits instead of
		// reporting ENODATA, and an empty default ACL is exactly what a
		// directory without one has.
		if errors.Is(err, syscall.ENODATA) {
			if a, err = C.acl_init(0); a == nil {
				return nil, ioErr("acl_init", path, err)
			}
			return &Handle{val: a}, nil
		}
		return nil, ioErr("acl_get_file", path, err)
	}
	return &Handle{val: a}, nil
}

func (h *Handle) setFile(path string, t C.acl_type_t) error {
	// backstop only; the entry list was validated before allocation
	if C.acl_valid(h.val) != 0 {
		return validationErr("native acl failed acl_valid")
	}

	p := C.CString(path)
	r, err := C.acl_set_file(p, t, h.val)
	C.free(unsafe.Pointer(p))
	if r != 0 {
		return ioErr("acl_set_file", path, err)
	}
	return nil
}

// exportHandle writes a canonical entry list into a freshly allocated
// native ACL.
func exportHandle(entries []Entry) (*Handle, error) {
	a, err := C.acl_init(C.int(len(entries)))
	if a == nil {
		return nil, ioErr("acl_init", "", err)
	}

	h := &Handle{val: a}
	for _, ent := range entries {
		if err = h.addEntry(ent); err != nil {
			h.Free()
			return nil, err
		}
	}
	return h, nil
}

func (h *Handle) addEntry(ent Entry) error {
	ct, ok := ent.Qual.Tag().native()
	if !ok {
		return &Error{Kind: KindInvalidArgument, Op: "acl_set_tag_type", Msg: "entry with undefined tag"}
	}

	// create new acl entry
	var e C.acl_entry_t
	if r, err := C.acl_create_entry(&h.val, &e); r != 0 {
		return ioErr("acl_create_entry", "", err)
	}

	// set tag type to new entry
	if r, err := C.acl_set_tag_type(e, ct); r != 0 {
		return ioErr("acl_set_tag_type", "", err)
	}

	// set qualifier (uid/gid) for named entries
	if id, ok := ent.Qual.ID(); ok {
		q := C.uint(id)
		if r, err := C.acl_set_qualifier(e, unsafe.Pointer(&q)); r != 0 {
			return ioErr("acl_set_qualifier", "", err)
		}
	}

	// get perm set of new entry
	var p C.acl_permset_t
	if r, err := C.acl_get_permset(e, &p); r != 0 {
		return ioErr("acl_get_permset", "", err)
	}
	if r, err := C.acl_clear_perms(p); r != 0 {
		return ioErr("acl_clear_perms", "", err)
	}

	// add target perms
	for _, b := range []Perm{Read, Write, Execute} {
		if ent.Perm&b == 0 {
			continue
		}
		if r, err := C.acl_add_perm(p, C.acl_perm_t(b)); r != 0 {
			return ioErr("acl_add_perm", "", err)
		}
	}

	// set perm set to new entry
	if r, err := C.acl_set_permset(e, p); r != 0 {
		return ioErr("acl_set_permset", "", err)
	}
	return nil
}

// entries enumerates the native ACL and reconstructs the structured
// entry list. The returned entry pointers are owned by the ACL itself
// so only the qualifier needs freeing.
func (h *Handle) entries() ([]Entry, error) {
	var out []Entry
	var e C.acl_entry_t

	for which := C.int(C.ACL_FIRST_ENTRY); ; which = C.ACL_NEXT_ENTRY {
		r, err := C.acl_get_entry(h.val, which, &e)
		if r == 0 {
			// drained acl
			return out, nil
		}
		if r != 1 {
			return nil, ioErr("acl_get_entry", "", err)
		}

		ent, err := entryFromNative(e)
		if err != nil {
			return nil, err
		}
		out = append(out, ent)
	}
}

func entryFromNative(e C.acl_entry_t) (Entry, error) {
	var ct C.acl_tag_t
	if r, err := C.acl_get_tag_type(e, &ct); r != 0 {
		return Entry{}, ioErr("acl_get_tag_type", "", err)
	}

	var qual Qualifier
	switch tagFromNative(ct) {
	case TagUserObj:
		qual = UserObj
	case TagGroupObj:
		qual = GroupObj
	case TagMask:
		qual = Mask
	case TagOther:
		qual = Other
	case TagUser, TagGroup:
		q, err := C.acl_get_qualifier(e)
		if q == nil {
			return Entry{}, ioErr("acl_get_qualifier", "", err)
		}
		id := *(*uint32)(q)
		C.acl_free(q)
		if tagFromNative(ct) == TagUser {
			qual = User(id)
		} else {
			qual = Group(id)
		}
	default:
		return Entry{}, &Error{Kind: KindInvalidArgument, Op: "acl_get_tag_type",
			Msg: fmt.Sprintf("unknown tag type %d", int(ct))}
	}

	var p C.acl_permset_t
	if r, err := C.acl_get_permset(e, &p); r != 0 {
		return Entry{}, ioErr("acl_get_permset", "", err)
	}
	var perm Perm
	for _, b := range []Perm{Read, Write, Execute} {
		switch r, err := C.acl_get_perm(p, C.acl_perm_t(b)); r {
		case 1:
			perm |= b
		case 0:
		default:
			return Entry{}, ioErr("acl_get_perm", "", err)
		}
	}
	return Entry{Qual: qual, Perm: perm}, nil
}
