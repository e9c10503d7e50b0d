package mdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errScope = errors.New("scope failed")

func TestScopeNormal(t *testing.T) {
	access := unconnectedAccess(t)
	var inside bool
	err := access.Scope(func(a *Access) error {
		inside = true
		assert.Same(t, access, a)
		assert.False(t, a.Released())
		return nil
	})
	require.NoError(t, err)
	assert.True(t, inside)
	assert.True(t, access.Released())
	assert.Equal(t, 1, access.releases)
}

func TestScopeError(t *testing.T) {
	access := unconnectedAccess(t)
	err := access.Scope(func(a *Access) error {
		return errScope
	})
	assert.ErrorIs(t, err, errScope)
	assert.True(t, access.Released())
	assert.Equal(t, 1, access.releases)
}

func TestScopePanic(t *testing.T) {
	access := unconnectedAccess(t)
	assert.PanicsWithValue(t, "boom", func() {
		_ = access.Scope(func(a *Access) error {
			panic("boom")
		})
	})
	assert.True(t, access.Released())
	assert.Equal(t, 1, access.releases)
}

func TestScopeDisconnectInside(t *testing.T) {
	access := unconnectedAccess(t)
	err := access.Scope(func(a *Access) error {
		return a.Disconnect()
	})
	require.NoError(t, err)
	assert.Equal(t, 1, access.releases)
}

func TestScopeKeepsScopeError(t *testing.T) {
	access := unconnectedAccess(t)
	releaseErr := errors.New("release failed")
	// Pretend an earlier release already failed.
	access.release.Do(func() {
		access.releases++
		access.releaseErr = releaseErr
	})
	err := access.Scope(func(a *Access) error {
		return errScope
	})
	assert.ErrorIs(t, err, errScope)
	assert.ErrorIs(t, err, releaseErr)
	assert.Equal(t, 1, access.releases)
}

func TestWithSessionInvalidTarget(t *testing.T) {
	called := false
	fn := func(a *Access) error {
		called = true
		return nil
	}
	assert.ErrorIs(t, WithSession(context.Background(), nil, nil, fn), ErrInvalidTarget)
	assert.ErrorIs(t, WithSession(context.Background(), &Target{Host: "localhost", Port: 0, Database: "x"}, nil, fn), ErrInvalidTarget)
	assert.ErrorIs(t, WithSession(context.Background(), &Target{Host: "localhost", Port: 27017}, nil, fn), ErrInvalidTarget)
	assert.False(t, called)
}

func TestWithSessionUnreachable(t *testing.T) {
	called := false
	err := WithSession(context.Background(),
		&Target{Host: "localhost", Port: 1, Database: "noSuchDB"},
		&Config{Logger: hclog.NewNullLogger(), Timeout: Timeout{Ping: 200 * time.Millisecond}},
		func(a *Access) error {
			called = true
			return nil
		})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "localhost:1/noSuchDB")
	assert.False(t, called)
}
