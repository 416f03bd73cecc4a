package posixacl

// Entry pairs a qualifier with its permission set. An ACL behaves as
// a mapping keyed by Qualifier; no two entries share one.
type Entry struct {
	Qual Qualifier
	Perm Perm
}

// String renders the entry in getfacl(1) long text form, e.g.
// "user:1000:rw-".
func (e Entry) String() string { return e.Qual.String() + e.Perm.String() }
