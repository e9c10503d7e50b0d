package mdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SessionFn is the caller logic run within a session scope.
type SessionFn func(access *Access) error

// WithSession connects to the target database, runs fn and disconnects.
// The connection is released exactly once whether fn returns normally,
// returns an error or panics. An error from fn is never hidden:
// a failure to disconnect is joined to it.
func WithSession(ctx context.Context, target *Target, config *Config, fn SessionFn) error {
	if target == nil {
		return fmt.Errorf("%w: no target", ErrInvalidTarget)
	}
	if err := target.Validate(); err != nil {
		return err
	}

	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if ctx != nil {
		cfg.Ctx = ctx
	}
	cfg.Options = target.ClientOptions()
	if cfg.Logger == nil {
		cfg.Logger = DefaultLogger()
	}
	cfg.Logger = cfg.Logger.With("session", uuid.NewString())

	access, err := Connect(target.Database, &cfg)
	if err != nil {
		return fmt.Errorf("session for %s: %w", target.Redacted(), err)
	}

	return access.Scope(fn)
}

// Scope runs fn with this object and disconnects when fn is done.
// Panics raised by fn propagate after the disconnect.
func (a *Access) Scope(fn SessionFn) (err error) {
	defer func() {
		if releaseErr := a.Disconnect(); releaseErr != nil {
			if err == nil {
				err = releaseErr
			} else {
				err = errors.Join(err, releaseErr)
			}
		}
	}()

	return fn(a)
}
