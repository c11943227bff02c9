package owner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUser(t *testing.T) {
	r := NewResolver(newFakeDatabase())

	tests := []struct {
		name     string
		spec     Spec
		want     Owner
		wantKind error
	}{
		{name: "by name", spec: ByName("nobody"), want: Owner{ID: 99, Name: "nobody"}},
		{name: "by id with entry", spec: ByID(1000), want: Owner{ID: 1000, Name: "alice"}},
		{name: "by id without entry", spec: ByID(321321), want: Owner{ID: 321321}},
		{name: "unknown name", spec: ByName("definitely-not-a-real-user"), wantKind: ErrNotFound},
		{name: "empty name", spec: ByName(""), wantKind: ErrInvalidInput},
		{name: "reserved id", spec: ByID(NoChange), wantKind: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveUser(tt.spec)
			if tt.wantKind != nil {
				require.ErrorIs(t, err, tt.wantKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveGroup(t *testing.T) {
	r := NewResolver(newFakeDatabase())

	tests := []struct {
		name     string
		spec     Spec
		want     Group
		wantKind error
	}{
		{name: "by name", spec: ByName("nogroup"), want: Group{ID: 99, Name: "nogroup"}},
		{name: "by id with entry", spec: ByID(50), want: Group{ID: 50, Name: "staff"}},
		{name: "by id without entry", spec: ByID(321321), want: Group{ID: 321321}},
		{name: "unknown name", spec: ByName("no-such-group"), wantKind: ErrNotFound},
		{name: "empty name", spec: ByName(""), wantKind: ErrInvalidInput},
		{name: "reserved id", spec: ByID(NoChange), wantKind: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveGroup(tt.spec)
			if tt.wantKind != nil {
				require.ErrorIs(t, err, tt.wantKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_DatabaseFailure(t *testing.T) {
	db := newFakeDatabase()
	boom := errors.New("nss backend unavailable")
	db.err = boom
	r := NewResolver(db)

	// Names need the database, so failures surface as ErrIO.
	_, err := r.ResolveUser(ByName("nobody"))
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, boom)

	_, err = r.ResolveGroup(ByName("nogroup"))
	require.ErrorIs(t, err, ErrIO)

	// IDs stay valid without a name.
	o, err := r.ResolveUser(ByID(99))
	require.NoError(t, err)
	assert.Equal(t, Owner{ID: 99}, o)

	g, err := r.ResolveGroup(ByID(99))
	require.NoError(t, err)
	assert.Equal(t, Group{ID: 99}, g)
}

func TestResolveUser_NameRoundTrip(t *testing.T) {
	db := newFakeDatabase()
	r := NewResolver(db)

	for name, uid := range db.users {
		o, err := r.ResolveUser(ByName(name))
		require.NoError(t, err)
		assert.Equal(t, uid, o.ID)
		assert.Equal(t, name, o.Name)

		back := r.LookupOwner(o.ID)
		assert.Equal(t, o, back)
	}
}

func TestNewResolver_DefaultsToOS(t *testing.T) {
	r := NewResolver(nil)
	assert.IsType(t, OSDatabase{}, r.db)
}
