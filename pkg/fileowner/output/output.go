// Package output provides formatters for displaying path ownership in
// various output formats (pretty, plain, json, yaml, csv, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("plain")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    return err
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/jamesainslie/fileowner/pkg/fileowner/owner"
)

// Record is the ownership of one path.
type Record struct {
	// Path is the path as given by the caller.
	Path string `json:"path" yaml:"path"`

	// UID is the numeric owner.
	UID uint32 `json:"uid" yaml:"uid"`

	// User is the owner's login name, empty when the UID has no entry.
	User string `json:"user,omitempty" yaml:"user,omitempty"`

	// GID is the numeric group.
	GID uint32 `json:"gid" yaml:"gid"`

	// Group is the group name, empty when the GID has no entry.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
}

// NewRecord builds a Record from a resolved owner and group.
func NewRecord(path string, o owner.Owner, g owner.Group) Record {
	return Record{Path: path, UID: o.ID, User: o.Name, GID: g.ID, Group: g.Name}
}

// OwnerString returns the user name, or the UID when there is none.
func (r Record) OwnerString() string {
	return display(r.User, r.UID)
}

// GroupString returns the group name, or the GID when there is none.
func (r Record) GroupString() string {
	return display(r.Group, r.GID)
}

// RecordError is a path that could not be inspected.
type RecordError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// Result contains the complete output data for formatting.
type Result struct {
	// Records holds one entry per path that was read, in argument order.
	Records []Record `json:"records" yaml:"records"`

	// Errors holds the paths that failed.
	Errors []RecordError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Add appends the ownership of path to the result.
func (r *Result) Add(path string, o owner.Owner, g owner.Group) {
	r.Records = append(r.Records, NewRecord(path, o, g))
}

// AddError records a failed path.
func (r *Result) AddError(path string, err error) {
	r.Errors = append(r.Errors, RecordError{Path: path, Error: err.Error()})
}

// Failed reports whether any path failed.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// display renders a name, falling back to the numeric ID.
func display(name string, id uint32) string {
	if name != "" {
		return name
	}
	return strconv.FormatUint(uint64(id), 10)
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
