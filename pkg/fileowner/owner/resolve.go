package owner

import (
	"errors"
	"fmt"
	"os/user"
	"strconv"

	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
)

// Database is the source of user and group entries. Lookups of a name or
// ID that has no entry must return the matching os/user Unknown*Error.
type Database interface {
	LookupUser(name string) (*user.User, error)
	LookupUserID(uid uint32) (*user.User, error)
	LookupGroup(name string) (*user.Group, error)
	LookupGroupID(gid uint32) (*user.Group, error)
}

// OSDatabase queries the system password and group databases through
// os/user. Lookups may block on NSS services such as LDAP.
type OSDatabase struct{}

// LookupUser looks up a user by login name.
func (OSDatabase) LookupUser(name string) (*user.User, error) {
	return user.Lookup(name)
}

// LookupUserID looks up a user by UID.
func (OSDatabase) LookupUserID(uid uint32) (*user.User, error) {
	return user.LookupId(strconv.FormatUint(uint64(uid), 10))
}

// LookupGroup looks up a group by name.
func (OSDatabase) LookupGroup(name string) (*user.Group, error) {
	return user.LookupGroup(name)
}

// LookupGroupID looks up a group by GID.
func (OSDatabase) LookupGroupID(gid uint32) (*user.Group, error) {
	return user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
}

var _ Database = OSDatabase{}

// Resolver converts specifiers into identities. It holds no state beyond
// its database and is safe for concurrent use.
type Resolver struct {
	db Database
}

// NewResolver returns a Resolver backed by db, or by the OS databases when
// db is nil.
func NewResolver(db Database) *Resolver {
	if db == nil {
		db = OSDatabase{}
	}
	return &Resolver{db: db}
}

var defaultResolver = NewResolver(nil)

// ResolveUser resolves s against the OS password database.
func ResolveUser(s Spec) (Owner, error) {
	return defaultResolver.ResolveUser(s)
}

// ResolveGroup resolves s against the OS group database.
func ResolveGroup(s Spec) (Group, error) {
	return defaultResolver.ResolveGroup(s)
}

// ResolveUser resolves a user specifier.
//
// A name must exist in the database or ErrNotFound is returned. A numeric
// ID always resolves; the name is attached when the database has one.
func (r *Resolver) ResolveUser(s Spec) (Owner, error) {
	if name, ok := s.Name(); ok {
		uid, err := r.userID(name)
		if err != nil {
			return Owner{}, err
		}
		return Owner{ID: uid, Name: name}, nil
	}

	uid, _ := s.ID()
	if uid == NoChange {
		return Owner{}, newError("lookup user", s.String(), ErrInvalidInput, errors.New("reserved id"))
	}
	return r.LookupOwner(uid), nil
}

// ResolveGroup resolves a group specifier with the same rules as
// ResolveUser.
func (r *Resolver) ResolveGroup(s Spec) (Group, error) {
	if name, ok := s.Name(); ok {
		gid, err := r.groupID(name)
		if err != nil {
			return Group{}, err
		}
		return Group{ID: gid, Name: name}, nil
	}

	gid, _ := s.ID()
	if gid == NoChange {
		return Group{}, newError("lookup group", s.String(), ErrInvalidInput, errors.New("reserved id"))
	}
	return r.LookupGroup(gid), nil
}

// LookupOwner annotates uid with its login name. It never fails: a UID
// without an entry, or a failed lookup, yields an Owner without a name.
func (r *Resolver) LookupOwner(uid uint32) Owner {
	u, err := r.db.LookupUserID(uid)
	if err != nil {
		var unknown user.UnknownUserIdError
		if !errors.As(err, &unknown) {
			logging.Get("owner").Debug("uid lookup failed", "uid", uid, "error", err)
		}
		return Owner{ID: uid}
	}
	return Owner{ID: uid, Name: u.Username}
}

// LookupGroup annotates gid with its group name. It never fails.
func (r *Resolver) LookupGroup(gid uint32) Group {
	g, err := r.db.LookupGroupID(gid)
	if err != nil {
		var unknown user.UnknownGroupIdError
		if !errors.As(err, &unknown) {
			logging.Get("owner").Debug("gid lookup failed", "gid", gid, "error", err)
		}
		return Group{ID: gid}
	}
	return Group{ID: gid, Name: g.Name}
}

// uidOf returns the UID named by s for a chown call. Only names touch the
// database; a numeric ID is checked against NoChange and used as is.
func (r *Resolver) uidOf(s Spec) (uint32, error) {
	if name, ok := s.Name(); ok {
		return r.userID(name)
	}
	uid, _ := s.ID()
	if uid == NoChange {
		return 0, newError("lookup user", s.String(), ErrInvalidInput, errors.New("reserved id"))
	}
	return uid, nil
}

// gidOf is uidOf for groups.
func (r *Resolver) gidOf(s Spec) (uint32, error) {
	if name, ok := s.Name(); ok {
		return r.groupID(name)
	}
	gid, _ := s.ID()
	if gid == NoChange {
		return 0, newError("lookup group", s.String(), ErrInvalidInput, errors.New("reserved id"))
	}
	return gid, nil
}

func (r *Resolver) userID(name string) (uint32, error) {
	if name == "" {
		return 0, newError("lookup user", name, ErrInvalidInput, errors.New("empty name"))
	}

	u, err := r.db.LookupUser(name)
	if err != nil {
		var unknown user.UnknownUserError
		if errors.As(err, &unknown) {
			return 0, newError("lookup user", name, ErrNotFound, err)
		}
		return 0, newError("lookup user", name, ErrIO, err)
	}

	uid, err := parseDatabaseID(u.Uid)
	if err != nil {
		return 0, newError("lookup user", name, ErrIO, err)
	}
	return uid, nil
}

func (r *Resolver) groupID(name string) (uint32, error) {
	if name == "" {
		return 0, newError("lookup group", name, ErrInvalidInput, errors.New("empty name"))
	}

	g, err := r.db.LookupGroup(name)
	if err != nil {
		var unknown user.UnknownGroupError
		if errors.As(err, &unknown) {
			return 0, newError("lookup group", name, ErrNotFound, err)
		}
		return 0, newError("lookup group", name, ErrIO, err)
	}

	gid, err := parseDatabaseID(g.Gid)
	if err != nil {
		return 0, newError("lookup group", name, ErrIO, err)
	}
	return gid, nil
}

func parseDatabaseID(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("database returned non-numeric id %q: %w", s, err)
	}
	return uint32(n), nil
}
