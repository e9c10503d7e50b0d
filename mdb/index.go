package mdb

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IndexDescription struct {
	unique bool
	keys   []string
}

// NewIndexDescription creates a new index description.
// Keys are ascending unless prefixed with '-'.
func NewIndexDescription(unique bool, keys ...string) *IndexDescription {
	return &IndexDescription{
		unique: unique,
		keys:   keys,
	}
}

func (id *IndexDescription) AsBSON() bson.D {
	asBSON := bson.D{}
	for _, key := range id.keys {
		if field, found := strings.CutPrefix(key, "-"); found {
			asBSON = append(asBSON, bson.E{Key: field, Value: -1})
		} else {
			asBSON = append(asBSON, bson.E{Key: key, Value: 1})
		}
	}
	return asBSON
}

// Name returns the name Mongo generates for this index, e.g. autor_1_año_-1.
func (id *IndexDescription) Name() string {
	parts := make([]string, 0, len(id.keys))
	for _, elem := range id.AsBSON() {
		parts = append(parts, fmt.Sprintf("%s_%v", elem.Key, elem.Value))
	}
	return strings.Join(parts, "_")
}

// Unique reports whether the index enforces unique keys.
func (id *IndexDescription) Unique() bool {
	return id.unique
}

// Finisher returns a function that can be used as a CollectionFinisher for creating this index.
func (id *IndexDescription) Finisher() CollectionFinisher {
	return func(access *Access, collection *Collection) error {
		return access.Index(collection, id)
	}
}

func (a *Access) Index(collection *Collection, description *IndexDescription) error {
	ctx, cancel := a.ContextWithTimeout(a.config.Timeout.Index)
	defer cancel()
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    description.AsBSON(),
		Options: options.Index().SetUnique(description.unique),
	})
	if err != nil {
		// Creating an identical index twice is not an error.
		return fmt.Errorf("create index %s: %w", description.Name(), err)
	}

	a.Info("Created index", "collection", collection.Name(), "index", description.Name())

	return nil
}

// DropIndex removes the index matching the description.
func (a *Access) DropIndex(collection *Collection, description *IndexDescription) error {
	ctx, cancel := a.ContextWithTimeout(a.config.Timeout.Index)
	defer cancel()
	if _, err := collection.Indexes().DropOne(ctx, description.Name()); err != nil {
		return fmt.Errorf("drop index %s: %w", description.Name(), err)
	}

	a.Info("Dropped index", "collection", collection.Name(), "index", description.Name())

	return nil
}

// IndexNames lists the names of the indexes on the collection, including _id_.
func (a *Access) IndexNames(collection *Collection) ([]string, error) {
	ctx, cancel := a.ContextWithTimeout(a.config.Timeout.Index)
	defer cancel()
	specs, err := collection.Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}

	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return names, nil
}
