package owner

import "strconv"

// Owner is a user identity. ID is authoritative; Name is the login name
// from the password database and is empty when the UID has no entry,
// which is legal on Unix.
type Owner struct {
	ID   uint32 `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// HasName reports whether the database supplied a name for the UID.
func (o Owner) HasName() bool {
	return o.Name != ""
}

// String returns the name, or the decimal UID when there is none.
func (o Owner) String() string {
	if o.Name != "" {
		return o.Name
	}
	return strconv.FormatUint(uint64(o.ID), 10)
}

// Group is a group identity. ID is authoritative; Name is empty when the
// GID has no group database entry.
type Group struct {
	ID   uint32 `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// HasName reports whether the database supplied a name for the GID.
func (g Group) HasName() bool {
	return g.Name != ""
}

// String returns the name, or the decimal GID when there is none.
func (g Group) String() string {
	if g.Name != "" {
		return g.Name
	}
	return strconv.FormatUint(uint64(g.ID), 10)
}
