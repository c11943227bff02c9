package owner

import (
	"errors"
	"os/user"
	"strconv"
	"sync"
)

// fakeDatabase is an in-memory Database.
type fakeDatabase struct {
	users  map[string]uint32
	groups map[string]uint32
	err    error
	// idLookups counts LookupUserID and LookupGroupID calls.
	idLookups int
}

func newFakeDatabase() *fakeDatabase {
	return &fakeDatabase{
		users:  map[string]uint32{"root": 0, "nobody": 99, "alice": 1000},
		groups: map[string]uint32{"root": 0, "nogroup": 99, "staff": 50},
	}
}

func (d *fakeDatabase) LookupUser(name string) (*user.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	uid, ok := d.users[name]
	if !ok {
		return nil, user.UnknownUserError(name)
	}
	return &user.User{Username: name, Uid: strconv.FormatUint(uint64(uid), 10)}, nil
}

func (d *fakeDatabase) LookupUserID(uid uint32) (*user.User, error) {
	d.idLookups++
	if d.err != nil {
		return nil, d.err
	}
	for name, id := range d.users {
		if id == uid {
			return &user.User{Username: name, Uid: strconv.FormatUint(uint64(uid), 10)}, nil
		}
	}
	return nil, user.UnknownUserIdError(int(uid))
}

func (d *fakeDatabase) LookupGroup(name string) (*user.Group, error) {
	if d.err != nil {
		return nil, d.err
	}
	gid, ok := d.groups[name]
	if !ok {
		return nil, user.UnknownGroupError(name)
	}
	return &user.Group{Name: name, Gid: strconv.FormatUint(uint64(gid), 10)}, nil
}

func (d *fakeDatabase) LookupGroupID(gid uint32) (*user.Group, error) {
	d.idLookups++
	if d.err != nil {
		return nil, d.err
	}
	for name, id := range d.groups {
		if id == gid {
			return &user.Group{Name: name, Gid: strconv.FormatUint(uint64(gid), 10)}, nil
		}
	}
	return nil, user.UnknownGroupIdError(strconv.FormatUint(uint64(gid), 10))
}

type chownCall struct {
	path     string
	uid, gid int
	follow   bool
}

type ownership struct {
	uid, gid uint32
}

// fakeFileSystem records chown calls and applies them to an in-memory
// table of paths.
type fakeFileSystem struct {
	mu    sync.Mutex
	files map[string]ownership
	calls []chownCall
	// denyUID makes chown to this uid fail with ErrPermissionDenied.
	denyUID *int
}

func newFakeFileSystem() *fakeFileSystem {
	return &fakeFileSystem{files: map[string]ownership{}}
}

func (f *fakeFileSystem) Chown(path string, uid, gid int, follow bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, chownCall{path: path, uid: uid, gid: gid, follow: follow})

	cur, ok := f.files[path]
	if !ok {
		return newError("chown", path, ErrPathNotFound, errors.New("no such file or directory"))
	}
	if f.denyUID != nil && uid == *f.denyUID {
		return newError("chown", path, ErrPermissionDenied, errors.New("operation not permitted"))
	}
	if uid != unchanged {
		cur.uid = uint32(uid)
	}
	if gid != unchanged {
		cur.gid = uint32(gid)
	}
	f.files[path] = cur
	return nil
}

func (f *fakeFileSystem) Stat(path string, _ bool) (uint32, uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.files[path]
	if !ok {
		return 0, 0, newError("stat", path, ErrPathNotFound, errors.New("no such file or directory"))
	}
	return cur.uid, cur.gid, nil
}

func (f *fakeFileSystem) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
