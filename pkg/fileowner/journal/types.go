// Package journal keeps a persistent log of ownership changes so they can
// be listed and reverted.
package journal

import (
	"time"

	"github.com/jamesainslie/fileowner/pkg/fileowner/owner"
)

// Operation identifies what produced an entry.
type Operation string

const (
	// OpSet is a change made by "fileowner set".
	OpSet Operation = "set"
	// OpRevert restores the state recorded by an earlier entry.
	OpRevert Operation = "revert"
)

// Snapshot is the ownership of a path at one point in time.
type Snapshot struct {
	UID       uint32 `json:"uid"`
	UserName  string `json:"user,omitempty"`
	GID       uint32 `json:"gid"`
	GroupName string `json:"group,omitempty"`
}

// NewSnapshot builds a Snapshot from resolved identities.
func NewSnapshot(o owner.Owner, g owner.Group) Snapshot {
	return Snapshot{UID: o.ID, UserName: o.Name, GID: g.ID, GroupName: g.Name}
}

// Owner returns the owner half of the snapshot.
func (s Snapshot) Owner() owner.Owner {
	return owner.Owner{ID: s.UID, Name: s.UserName}
}

// Group returns the group half of the snapshot.
func (s Snapshot) Group() owner.Group {
	return owner.Group{ID: s.GID, Name: s.GroupName}
}

// Entry records one ownership change.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
	Path      string    `json:"path"`
	Before    Snapshot  `json:"before"`
	After     Snapshot  `json:"after"`
	NoFollow  bool      `json:"no_follow,omitempty"`
	// RevertOf is the ID of the entry this one reverted.
	RevertOf string `json:"revert_of,omitempty"`
}

// Changed reports whether the entry altered owner or group.
func (e *Entry) Changed() bool {
	return e.Before.UID != e.After.UID || e.Before.GID != e.After.GID
}
