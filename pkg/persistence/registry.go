package persistence

import (
	"errors"
	"io"
	"reflect"
)

// Registry tracks resources opened while resolving parameter values (streams backing
// binary values, for instance) so that each is closed exactly once when the operation ends,
// whatever the exit path. It is owned by a single operation and not safe for concurrent use.
type Registry struct {
	closers []io.Closer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register tracks v if it is an io.Closer. Registering the same closer twice has no effect.
func (r *Registry) Register(v interface{}) {
	c, ok := v.(io.Closer)
	if !ok || c == nil {
		return
	}
	if reflect.TypeOf(c).Comparable() {
		for _, existing := range r.closers {
			if reflect.TypeOf(existing).Comparable() && existing == c {
				return
			}
		}
	}
	r.closers = append(r.closers, c)
}

// Len returns the number of tracked resources
func (r *Registry) Len() int {
	return len(r.closers)
}

// ReleaseClear closes every tracked resource and forgets them, so the registry can be
// reused for the next iteration of a batch. All resources are closed even if some fail.
func (r *Registry) ReleaseClear() error {
	closers := r.closers
	r.closers = nil

	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Release closes every tracked resource. It is safe to call after ReleaseClear and
// more than once: a resource is never closed twice.
func (r *Registry) Release() error {
	return r.ReleaseClear()
}
