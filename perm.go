package posixacl

// Perm is a bitmask of read, write and execute permission bits.
// The bit values match ACL_READ, ACL_WRITE and ACL_EXECUTE from
// <sys/acl.h>, so a Perm converts to the native representation
// without translation. Combine with `|`, intersect with `&`.
type Perm uint32

const (
	Execute Perm = 0x1
	Write   Perm = 0x2
	Read    Perm = 0x4

	// RWX is all permission bits combined.
	RWX = Read | Write | Execute
)

// String renders the rwx triad, e.g. "rw-".
func (p Perm) String() string {
	var s = []byte("---")
	if p&Read != 0 {
		s[0] = 'r'
	}
	if p&Write != 0 {
		s[1] = 'w'
	}
	if p&Execute != 0 {
		s[2] = 'x'
	}
	return string(s)
}
