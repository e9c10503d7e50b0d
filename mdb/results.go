package mdb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Results is a lazy, single-pass, forward-only sequence of documents
// returned from a find or an aggregation.
// Once exhausted or closed it stays exhausted,
// iterating again requires submitting the query again.
type Results struct {
	ctx     context.Context
	cursor  *mongo.Cursor
	current bson.Raw
	err     error
	done    bool
}

// NewResults wraps a driver cursor.
func NewResults(ctx context.Context, cursor *mongo.Cursor) *Results {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Results{ctx: ctx, cursor: cursor}
}

// Next advances to the next document.
// Returns false when the sequence is exhausted or an error occurred, see Err().
func (r *Results) Next() bool {
	if r.done {
		return false
	}

	if r.cursor.Next(r.ctx) {
		r.current = r.cursor.Current
		return true
	}

	if err := r.cursor.Err(); err != nil {
		r.err = fmt.Errorf("iterate results: %w", err)
	}
	r.finish()
	return false
}

// Document returns the current document as an unordered map.
func (r *Results) Document() (bson.M, error) {
	var doc bson.M
	if err := r.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode the current document into the specified value.
func (r *Results) Decode(v interface{}) error {
	if r.current == nil {
		return fmt.Errorf("decode result: no current document")
	}
	if err := bson.Unmarshal(r.current, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Err returns the error, if any, that ended the iteration.
func (r *Results) Err() error {
	return r.err
}

// Close releases the cursor. Safe to call more than once.
func (r *Results) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	r.current = nil
	if err := r.cursor.Close(r.ctx); err != nil {
		return fmt.Errorf("close results: %w", err)
	}
	return nil
}

// All drains the remaining documents.
func (r *Results) All() ([]bson.M, error) {
	all := make([]bson.M, 0)
	err := r.Iterate(func(doc bson.M) error {
		all = append(all, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// Iterate over the remaining documents, applying the specified function to each one.
// The cursor is closed when done.
func (r *Results) Iterate(fn func(doc bson.M) error) error {
	defer func() { _ = r.Close() }()

	for r.Next() {
		doc, err := r.Document()
		if err != nil {
			return err
		}
		if err = fn(doc); err != nil {
			return fmt.Errorf("apply function: %w", err)
		}
	}

	return r.Err()
}

func (r *Results) finish() {
	_ = r.Close()
}
