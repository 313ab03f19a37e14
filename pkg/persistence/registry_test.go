package persistence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingCloser struct {
	closes int
	err    error
}

func (c *countingCloser) Close() error {
	c.closes++
	return c.err
}

func TestRegistryReleasesOnce(t *testing.T) {
	r := NewRegistry()
	a, b := &countingCloser{}, &countingCloser{}

	r.Register(a)
	r.Register(a)
	r.Register(b)
	r.Register("not a closer")
	r.Register(nil)
	assert.Equal(t, 2, r.Len())

	assert.NoError(t, r.ReleaseClear())
	assert.Zero(t, r.Len())
	assert.NoError(t, r.Release())

	assert.Equal(t, 1, a.closes)
	assert.Equal(t, 1, b.closes)
}

func TestRegistryReleaseClearReuse(t *testing.T) {
	r := NewRegistry()
	first, second := &countingCloser{}, &countingCloser{}

	r.Register(first)
	assert.NoError(t, r.ReleaseClear())

	r.Register(second)
	assert.NoError(t, r.Release())

	assert.Equal(t, 1, first.closes)
	assert.Equal(t, 1, second.closes)
}

func TestRegistryClosesAllOnFailure(t *testing.T) {
	r := NewRegistry()
	failing := &countingCloser{err: errors.New("close failed")}
	ok := &countingCloser{}

	r.Register(failing)
	r.Register(ok)

	err := r.Release()
	assert.ErrorContains(t, err, "close failed")
	assert.Equal(t, 1, ok.closes)
	assert.Zero(t, r.Len())
}
