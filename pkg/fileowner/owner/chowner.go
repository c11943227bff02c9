package owner

import (
	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
)

// fileSystem performs the ownership system calls. Implementations return
// *Error values already classified into the package's kinds.
type fileSystem interface {
	// Chown sets uid and gid on path. -1 leaves the field unchanged.
	Chown(path string, uid, gid int, follow bool) error

	// Stat returns the uid and gid recorded for path.
	Stat(path string, follow bool) (uid, gid uint32, err error)
}

// unchanged is passed to chown for the field that must be left alone.
const unchanged = -1

// Chowner reads and changes the owner and group of single paths. It is
// immutable after New and safe for concurrent use.
type Chowner struct {
	resolver *Resolver
	fs       fileSystem
	follow   bool
}

// Option configures a Chowner.
type Option func(*Chowner)

// WithDatabase resolves names against db instead of the OS databases.
func WithDatabase(db Database) Option {
	return func(c *Chowner) {
		c.resolver = NewResolver(db)
	}
}

// WithResolver uses r for all name and ID resolution.
func WithResolver(r *Resolver) Option {
	return func(c *Chowner) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithNoFollow makes the Chowner act on symbolic links themselves
// (lchown/lstat) instead of their targets.
func WithNoFollow() Option {
	return func(c *Chowner) {
		c.follow = false
	}
}

func withFileSystem(fs fileSystem) Option {
	return func(c *Chowner) {
		c.fs = fs
	}
}

// New returns a Chowner that follows symbolic links and uses the OS
// databases unless configured otherwise.
func New(opts ...Option) *Chowner {
	c := &Chowner{
		resolver: defaultResolver,
		fs:       newFileSystem(),
		follow:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolver returns the resolver the Chowner uses.
func (c *Chowner) Resolver() *Resolver {
	return c.resolver
}

// SetOwner changes the owner of path and leaves its group alone.
func (c *Chowner) SetOwner(path string, owner Spec) error {
	uid, err := c.resolver.uidOf(owner)
	if err != nil {
		return err
	}
	return c.chown(path, int(uid), unchanged)
}

// SetGroup changes the group of path and leaves its owner alone.
func (c *Chowner) SetGroup(path string, group Spec) error {
	gid, err := c.resolver.gidOf(group)
	if err != nil {
		return err
	}
	return c.chown(path, unchanged, int(gid))
}

// SetOwnerGroup changes owner and group with a single system call. Both
// specifiers are resolved first; if either fails nothing is changed.
// Numeric specifiers are not looked up.
func (c *Chowner) SetOwnerGroup(path string, owner, group Spec) error {
	uid, err := c.resolver.uidOf(owner)
	if err != nil {
		return err
	}
	gid, err := c.resolver.gidOf(group)
	if err != nil {
		return err
	}
	return c.chown(path, int(uid), int(gid))
}

// GetOwner returns the current owner of path.
func (c *Chowner) GetOwner(path string) (Owner, error) {
	uid, _, err := c.fs.Stat(path, c.follow)
	if err != nil {
		return Owner{}, err
	}
	return c.resolver.LookupOwner(uid), nil
}

// GetGroup returns the current group of path.
func (c *Chowner) GetGroup(path string) (Group, error) {
	_, gid, err := c.fs.Stat(path, c.follow)
	if err != nil {
		return Group{}, err
	}
	return c.resolver.LookupGroup(gid), nil
}

// GetOwnerGroup returns owner and group from one stat call.
func (c *Chowner) GetOwnerGroup(path string) (Owner, Group, error) {
	uid, gid, err := c.fs.Stat(path, c.follow)
	if err != nil {
		return Owner{}, Group{}, err
	}
	return c.resolver.LookupOwner(uid), c.resolver.LookupGroup(gid), nil
}

func (c *Chowner) chown(path string, uid, gid int) error {
	log := logging.Get("owner")
	log.Debug("chown", "path", path, "uid", uid, "gid", gid, "follow", c.follow)

	if err := c.fs.Chown(path, uid, gid, c.follow); err != nil {
		log.Debug("chown failed", "path", path, "error", err)
		return err
	}
	return nil
}

var std = New()

// SetOwner changes the owner of path using the OS databases.
func SetOwner(path string, owner Spec) error {
	return std.SetOwner(path, owner)
}

// SetGroup changes the group of path using the OS databases.
func SetGroup(path string, group Spec) error {
	return std.SetGroup(path, group)
}

// SetOwnerGroup changes owner and group of path in one call.
func SetOwnerGroup(path string, owner, group Spec) error {
	return std.SetOwnerGroup(path, owner, group)
}

// GetOwner returns the owner of path.
func GetOwner(path string) (Owner, error) {
	return std.GetOwner(path)
}

// GetGroup returns the group of path.
func GetGroup(path string) (Group, error) {
	return std.GetGroup(path)
}

// GetOwnerGroup returns owner and group of path.
func GetOwnerGroup(path string) (Owner, Group, error) {
	return std.GetOwnerGroup(path)
}
