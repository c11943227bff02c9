package owner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChowner(opts ...Option) (*Chowner, *fakeFileSystem) {
	fs := newFakeFileSystem()
	fs.files["/tmp/baz"] = ownership{uid: 1000, gid: 50}
	all := append([]Option{WithDatabase(newFakeDatabase()), withFileSystem(fs)}, opts...)
	return New(all...), fs
}

func TestChowner_SetOwnerByName(t *testing.T) {
	c, fs := newTestChowner()

	require.NoError(t, c.SetOwner("/tmp/baz", ByName("nobody")))

	o, err := c.GetOwner("/tmp/baz")
	require.NoError(t, err)
	assert.Equal(t, Owner{ID: 99, Name: "nobody"}, o)

	require.Len(t, fs.calls, 1)
	assert.Equal(t, chownCall{path: "/tmp/baz", uid: 99, gid: unchanged, follow: true}, fs.calls[0])
}

func TestChowner_SetOwnerKeepsGroup(t *testing.T) {
	c, _ := newTestChowner()

	before, err := c.GetGroup("/tmp/baz")
	require.NoError(t, err)

	require.NoError(t, c.SetOwner("/tmp/baz", ByID(0)))

	after, err := c.GetGroup("/tmp/baz")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestChowner_SetGroupKeepsOwner(t *testing.T) {
	c, fs := newTestChowner()

	before, err := c.GetOwner("/tmp/baz")
	require.NoError(t, err)

	require.NoError(t, c.SetGroup("/tmp/baz", ByName("nogroup")))

	after, err := c.GetOwner("/tmp/baz")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	g, err := c.GetGroup("/tmp/baz")
	require.NoError(t, err)
	assert.Equal(t, Group{ID: 99, Name: "nogroup"}, g)

	require.Len(t, fs.calls, 1)
	assert.Equal(t, unchanged, fs.calls[0].uid)
}

func TestChowner_SetOwnerGroupSingleCall(t *testing.T) {
	tests := []struct {
		name  string
		owner Spec
		group Spec
	}{
		{"names", ByName("nobody"), ByName("nogroup")},
		{"ids", ByID(99), ByID(99)},
		{"id and name", ByID(99), ByName("nogroup")},
		{"name and id", ByName("nobody"), ByID(99)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fs := newTestChowner()

			require.NoError(t, c.SetOwnerGroup("/tmp/baz", tt.owner, tt.group))
			// Repeating the call leaves the same state.
			require.NoError(t, c.SetOwnerGroup("/tmp/baz", tt.owner, tt.group))

			o, g, err := c.GetOwnerGroup("/tmp/baz")
			require.NoError(t, err)
			assert.Equal(t, Owner{ID: 99, Name: "nobody"}, o)
			assert.Equal(t, Group{ID: 99, Name: "nogroup"}, g)

			require.Len(t, fs.calls, 2)
			for _, call := range fs.calls {
				assert.Equal(t, 99, call.uid)
				assert.Equal(t, 99, call.gid)
			}
		})
	}
}

func TestChowner_SetByIDSkipsDatabase(t *testing.T) {
	db := newFakeDatabase()
	fs := newFakeFileSystem()
	fs.files["/tmp/baz"] = ownership{uid: 1000, gid: 50}
	c := New(WithDatabase(db), withFileSystem(fs))

	require.NoError(t, c.SetOwner("/tmp/baz", ByID(99)))
	require.NoError(t, c.SetGroup("/tmp/baz", ByID(99)))
	require.NoError(t, c.SetOwnerGroup("/tmp/baz", ByID(321321), ByID(321321)))
	assert.Equal(t, 0, db.idLookups)
	assert.Equal(t, 3, fs.callCount())

	// An unreachable database does not matter for numeric IDs.
	db.err = errors.New("directory service down")
	require.NoError(t, c.SetOwnerGroup("/tmp/baz", ByID(1), ByID(2)))
	require.ErrorIs(t, c.SetOwner("/tmp/baz", ByName("nobody")), ErrIO)
	assert.Equal(t, ownership{uid: 1, gid: 2}, fs.files["/tmp/baz"])
}

func TestChowner_UnknownNameMakesNoSyscall(t *testing.T) {
	c, fs := newTestChowner()

	err := c.SetOwner("/tmp/baz", ByName("definitely-not-a-real-user"))
	require.ErrorIs(t, err, ErrNotFound)

	err = c.SetGroup("/tmp/baz", ByName("no-such-group"))
	require.ErrorIs(t, err, ErrNotFound)

	// A bad group must also stop a valid owner from being applied.
	err = c.SetOwnerGroup("/tmp/baz", ByName("nobody"), ByName("no-such-group"))
	require.ErrorIs(t, err, ErrNotFound)

	err = c.SetOwnerGroup("/tmp/baz", ByName("no-such-user"), ByName("nogroup"))
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 0, fs.callCount())

	o, g, err := c.GetOwnerGroup("/tmp/baz")
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), o.ID)
	assert.Equal(t, uint32(50), g.ID)
}

func TestChowner_ReservedIDMakesNoSyscall(t *testing.T) {
	c, fs := newTestChowner()

	require.ErrorIs(t, c.SetOwner("/tmp/baz", ByID(NoChange)), ErrInvalidInput)
	require.ErrorIs(t, c.SetGroup("/tmp/baz", ByID(NoChange)), ErrInvalidInput)
	assert.Equal(t, 0, fs.callCount())
}

func TestChowner_OrphanedIDs(t *testing.T) {
	c, _ := newTestChowner()

	require.NoError(t, c.SetOwnerGroup("/tmp/baz", ByID(321321), ByID(321321)))

	o, g, err := c.GetOwnerGroup("/tmp/baz")
	require.NoError(t, err)
	assert.Equal(t, Owner{ID: 321321}, o)
	assert.Equal(t, Group{ID: 321321}, g)
	assert.Equal(t, "321321", o.String())
}

func TestChowner_Errors(t *testing.T) {
	c, fs := newTestChowner()

	require.ErrorIs(t, c.SetOwner("/no/such/path", ByID(0)), ErrPathNotFound)

	_, err := c.GetOwner("/no/such/path")
	require.ErrorIs(t, err, ErrPathNotFound)
	_, err = c.GetGroup("/no/such/path")
	require.ErrorIs(t, err, ErrPathNotFound)
	_, _, err = c.GetOwnerGroup("/no/such/path")
	require.ErrorIs(t, err, ErrPathNotFound)

	root := 0
	fs.denyUID = &root
	require.ErrorIs(t, c.SetOwner("/tmp/baz", ByName("root")), ErrPermissionDenied)
}

func TestChowner_NoFollow(t *testing.T) {
	c, fs := newTestChowner(WithNoFollow())

	require.NoError(t, c.SetOwner("/tmp/baz", ByID(1)))
	require.Len(t, fs.calls, 1)
	assert.False(t, fs.calls[0].follow)
}

func TestChowner_WithResolver(t *testing.T) {
	r := NewResolver(newFakeDatabase())
	c := New(WithResolver(r))
	assert.Same(t, r, c.Resolver())

	// A nil resolver keeps the default.
	c = New(WithResolver(nil))
	assert.NotNil(t, c.Resolver())
}
