// Package owner reads and sets the Unix owner and group of a path, taking
// either numeric IDs or user and group names.
//
// Set the owner and group by name or by ID:
//
//	if err := owner.SetOwner("/tmp/baz", owner.ByName("nobody")); err != nil {
//	    return err
//	}
//	if err := owner.SetGroup("/tmp/baz", owner.ByID(99)); err != nil {
//	    return err
//	}
//
// Change both at once with a single chown call:
//
//	err := owner.SetOwnerGroup("/tmp/baz", owner.ByName("nobody"), owner.ByName("nogroup"))
//
// Read them back. Name is empty when the ID has no database entry:
//
//	o, err := owner.GetOwner("/tmp/baz")
//	o.ID   // 99
//	o.Name // "nobody"
//
// Specifiers typed by a user can be parsed with ParseSpec, which treats
// all-digit text as an ID and anything else as a name.
//
// Errors carry one of ErrNotFound, ErrPathNotFound, ErrPermissionDenied,
// ErrInvalidInput or ErrIO as their kind:
//
//	if errors.Is(err, owner.ErrPermissionDenied) { ... }
//
// The package only works on Unix; elsewhere every call fails with
// ErrUnsupported.
package owner
