package posixacl

import (
	"cmp"
	"fmt"
)

// Tag identifies the kind of subject an ACL entry applies to.
// Ordinal values follow the canonical POSIX export order, so sorting
// entries by tag alone yields a valid export layout.
type Tag uint8

const (
	// TagUndefined marks unrecognised or corrupt entries.
	TagUndefined Tag = iota
	// TagUserObj is the owner of the file.
	TagUserObj
	// TagUser is a named user identified by uid.
	TagUser
	// TagGroupObj is the owning group of the file.
	TagGroupObj
	// TagGroup is a named group identified by gid.
	TagGroup
	// TagMask caps the effective permissions of the owning group and
	// all named user and group entries.
	TagMask
	// TagOther is everyone not covered by another entry.
	TagOther
)

func (t Tag) String() string {
	switch t {
	case TagUserObj, TagUser:
		return "user"
	case TagGroupObj, TagGroup:
		return "group"
	case TagMask:
		return "mask"
	case TagOther:
		return "other"
	default:
		return "undefined"
	}
}

// Qualifier identifies who an ACL entry grants permissions to.
// It is an immutable comparable value; the zero value has TagUndefined
// and never matches a well-formed entry.
type Qualifier struct {
	tag Tag
	id  uint32
}

// Singleton qualifiers. An ACL carries at most one entry per kind.
var (
	UserObj  = Qualifier{tag: TagUserObj}
	GroupObj = Qualifier{tag: TagGroupObj}
	Mask     = Qualifier{tag: TagMask}
	Other    = Qualifier{tag: TagOther}
)

// User returns the qualifier of the user with numeric id uid.
func User(uid uint32) Qualifier { return Qualifier{tag: TagUser, id: uid} }

// Group returns the qualifier of the group with numeric id gid.
func Group(gid uint32) Qualifier { return Qualifier{tag: TagGroup, id: gid} }

// Tag returns the entry kind.
func (q Qualifier) Tag() Tag { return q.tag }

// ID returns the user or group id carried by TagUser and TagGroup
// qualifiers. The second return value is false for all other kinds.
func (q Qualifier) ID() (uint32, bool) {
	switch q.tag {
	case TagUser, TagGroup:
		return q.id, true
	default:
		return 0, false
	}
}

// Compare orders qualifiers by tag, then by id. This is the canonical
// POSIX order entries are exported in: UserObj, User (ascending id),
// GroupObj, Group (ascending id), Mask, Other.
func (q Qualifier) Compare(o Qualifier) int {
	if c := cmp.Compare(q.tag, o.tag); c != 0 {
		return c
	}
	return cmp.Compare(q.id, o.id)
}

// String formats the qualifier the way getfacl(1) does, with numeric
// ids, e.g. "user::", "user:1000:", "mask::".
func (q Qualifier) String() string {
	switch q.tag {
	case TagUser, TagGroup:
		return fmt.Sprintf("%s:%d:", q.tag, q.id)
	default:
		return q.tag.String() + "::"
	}
}
