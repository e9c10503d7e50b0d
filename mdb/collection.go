package mdb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madkins23/go-mongo-guide/mdbpipe"
)

type Collection struct {
	*Access
	*mongo.Collection
	ctx context.Context
}

// ConnectCollection creates a new collection object with the specified collection definition.
func ConnectCollection(access *Access, definition *CollectionDefinition) (*Collection, error) {
	collection := &Collection{}
	if err := access.CollectionConnect(collection, definition); err != nil {
		return nil, fmt.Errorf("connecting collection: %w", err)
	}
	return collection, nil
}

// Context returns the context used for calls on this collection.
func (c *Collection) Context() context.Context {
	if c.ctx == nil {
		return c.Access.Context()
	}
	return c.ctx
}

func (c *Collection) ContextWithTimeout() (context.Context, context.CancelFunc) {
	return c.Access.ContextWithTimeout(c.Access.config.Collection)
}

// Count documents in collection matching filter.
func (c *Collection) Count(filter interface{}) (int64, error) {
	if filter == nil {
		filter = NoFilter()
	}
	if count, err := c.CountDocuments(c.Context(), filter); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	} else {
		return count, nil
	}
}

// Create item in DB, returning the ID assigned to it.
func (c *Collection) Create(item interface{}) (interface{}, error) {
	result, err := c.InsertOne(c.Context(), item)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	return result.InsertedID, nil
}

// CreateMany inserts items in order, returning the IDs assigned to them.
func (c *Collection) CreateMany(items ...interface{}) ([]interface{}, error) {
	if len(items) == 0 {
		return []interface{}{}, nil
	}
	result, err := c.InsertMany(c.Context(), items)
	if err != nil {
		return nil, fmt.Errorf("insert items: %w", err)
	}

	return result.InsertedIDs, nil
}

// Delete the first item matching the filter from DB.
// Returns the number of items deleted, a filter matching nothing is not an error.
func (c *Collection) Delete(filter interface{}) (int64, error) {
	result, err := c.DeleteOne(c.Context(), filter)
	if err != nil {
		return 0, fmt.Errorf("delete item: %w", err)
	}

	return result.DeletedCount, nil
}

// DeleteMatching deletes all items matching the filter.
func (c *Collection) DeleteMatching(filter interface{}) (int64, error) {
	result, err := c.DeleteMany(c.Context(), filter)
	if err != nil {
		return 0, fmt.Errorf("delete items: %w", err)
	}

	return result.DeletedCount, nil
}

// DeleteAll items from this collection.
func (c *Collection) DeleteAll() error {
	_, err := c.DeleteMany(c.Context(), NoFilter())
	if err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	return nil
}

// Drop collection.
func (c *Collection) Drop() error {
	ctx, cancelFn := c.ContextWithTimeout()
	defer cancelFn()
	return c.Collection.Drop(ctx)
}

// Find an item in the database and return it as a schema-less document.
func (c *Collection) Find(filter interface{}) (bson.M, error) {
	var item bson.M
	if err := c.FindOne(c.Context(), filter).Decode(&item); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("no item '%v': %w", filter, err)
		}
		return nil, fmt.Errorf("find item '%v': %w", filter, err)
	}

	return item, nil
}

// FindOrCreate returns an existing object or creates it if it does not already exist.
// The filter must correctly find the object as a second Find is done after any necessary creation.
func (c *Collection) FindOrCreate(filter interface{}, item interface{}) (bson.M, error) {
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

// Query describes the optional parts of a FindAll beyond the filter.
type Query struct {
	// Sort specification in key order, e.g. bson.D{{Key: "año", Value: 1}}.
	Sort bson.D

	// Projection of returned fields.
	Projection interface{}

	// Limit of returned items, zero means no limit.
	Limit int64

	// Skip this many items first.
	Skip int64
}

// FindAll returns a lazy sequence of items matching the filter.
// A nil query returns items in the database's natural order.
func (c *Collection) FindAll(filter interface{}, query *Query) (*Results, error) {
	if filter == nil {
		filter = NoFilter()
	}
	opts := options.Find()
	if query != nil {
		if len(query.Sort) > 0 {
			opts.SetSort(query.Sort)
		}
		if query.Projection != nil {
			opts.SetProjection(query.Projection)
		}
		if query.Limit > 0 {
			opts.SetLimit(query.Limit)
		}
		if query.Skip > 0 {
			opts.SetSkip(query.Skip)
		}
	}

	cursor, err := c.Collection.Find(c.Context(), filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}

	return NewResults(c.Context(), cursor), nil
}

// Aggregate submits the pipeline as a single request.
// The returned sequence is lazy and may only be iterated once,
// errors for malformed stages may show up here or from Results.Err().
func (c *Collection) Aggregate(pipeline *mdbpipe.Pipeline) (*Results, error) {
	stages := mongo.Pipeline{}
	if pipeline != nil {
		stages = pipeline.Stages()
	}
	c.Access.Logger().Debug("Aggregate", "collection", c.Name(), "stages", len(stages))

	cursor, err := c.Collection.Aggregate(c.Context(), stages)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", c.Name(), err)
	}

	return NewResults(c.Context(), cursor), nil
}

// Iterate over a set of items, applying the specified function to each one.
func (c *Collection) Iterate(filter interface{}, fn func(item bson.M) error) error {
	results, err := c.FindAll(filter, nil)
	if err != nil {
		return err
	}

	return results.Iterate(fn)
}

var errNotString = errors.New("value not a string")

// StringValuesFor returns an array of distinct string values for the specified filter and field.
func (c *Collection) StringValuesFor(field string, filter interface{}) ([]string, error) {
	if filter == nil {
		filter = NoFilter()
	}
	values, err := c.Distinct(c.Context(), field, filter)
	if err != nil {
		return nil, fmt.Errorf("distinct values: %w", err)
	}

	var ok bool
	length := len(values)
	result := make([]string, length)
	for i := 0; i < length; i++ {
		if result[i], ok = values[i].(string); !ok {
			return nil, errNotString
		}
	}

	return result, nil
}

var errNoItemMatch = errors.New("no matching item")
var errNoItemModified = errors.New("no modified item")

// Replace the fields of the item referenced by filter with those of the specified item.
// If the filter matches more than one document Mongo will choose one to update.
func (c *Collection) Replace(filter, item interface{}, opts ...*options.UpdateOptions) error {
	return c.Update(filter, bson.M{"$set": item}, opts...)
}

// Update item referenced by filter by applying update operator expressions.
// If the filter matches more than one document Mongo will choose one to update.
func (c *Collection) Update(filter, operators interface{}, opts ...*options.UpdateOptions) error {
	result, err := c.UpdateOne(c.Context(), filter, operators, opts...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	} else if result.MatchedCount < 1 && result.UpsertedCount < 1 {
		return errNoItemMatch
	} else if result.ModifiedCount < 1 && result.UpsertedCount < 1 {
		// Matched but the operators left the item unchanged.
		return errNoItemModified
	} else {
		return nil
	}
}

// UpdateMatching applies update operators to every item matching the filter.
// Returns the number of items modified.
func (c *Collection) UpdateMatching(filter, operators interface{}) (int64, error) {
	result, err := c.UpdateMany(c.Context(), filter, operators)
	if err != nil {
		return 0, fmt.Errorf("update items: %w", err)
	}

	return result.ModifiedCount, nil
}

// IsNoMatch checks to see if the error is from an update that matched no item.
func IsNoMatch(err error) bool {
	return errors.Is(err, errNoItemMatch)
}

////////////////////////////////////////////////////////////////////////////////

// NoFilter returns an empty bson.D object for use as an empty filter.
func NoFilter() bson.D {
	return bson.D{}
}
