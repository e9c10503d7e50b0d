package mdb

import (
	"fmt"
)

// TypedCollection decodes items returned from Mongo into a specific Go type.
// The stored documents remain schema-less, the type is a conventional view.
type TypedCollection[T any] struct {
	Collection
}

func NewTypedCollection[T any](collection *Collection) *TypedCollection[T] {
	return &TypedCollection[T]{
		Collection: *collection,
	}
}

// ConnectTypedCollection creates a new typed collection object with the specified collection definition.
func ConnectTypedCollection[T any](access *Access, definition *CollectionDefinition) (*TypedCollection[T], error) {
	collection, err := ConnectCollection(access, definition)
	if err != nil {
		return nil, err
	}
	return NewTypedCollection[T](collection), nil
}

// Find an item in the database.
func (c *TypedCollection[T]) Find(filter interface{}) (*T, error) {
	item := new(T)
	err := c.FindOne(c.Context(), filter).Decode(item)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("no item '%v': %w", filter, err)
		}
		return nil, fmt.Errorf("find item '%v': %w", filter, err)
	}

	return item, nil
}

// FindOrCreate returns an existing object or creates it if it does not already exist.
func (c *TypedCollection[T]) FindOrCreate(filter interface{}, item *T) (*T, error) {
	// Can't inherit from Collection here, must redo the algorithm due to typing.
	found, err := c.Find(filter)
	if err != nil {
		if !IsNotFound(err) {
			return found, err
		}

		if _, err = c.Create(item); err != nil {
			return found, err
		}

		found, err = c.Find(filter)
		if err != nil {
			return found, fmt.Errorf("find just created item: %w", err)
		}
	}

	return found, nil
}

// Iterate over a set of items, applying the specified function to each one.
// Each call receives a freshly decoded item.
func (c *TypedCollection[T]) Iterate(filter interface{}, query *Query, fn func(item *T) error) error {
	results, err := c.FindAll(filter, query)
	if err != nil {
		return err
	}
	defer func() { _ = results.Close() }()

	for results.Next() {
		item := new(T)
		if err := results.Decode(item); err != nil {
			return err
		}

		if err := fn(item); err != nil {
			return fmt.Errorf("apply function: %w", err)
		}
	}

	return results.Err()
}

// All returns the items matching the filter in query order.
func (c *TypedCollection[T]) All(filter interface{}, query *Query) ([]*T, error) {
	items := make([]*T, 0)
	err := c.Iterate(filter, query, func(item *T) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
