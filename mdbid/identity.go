// Package mdbid provides an ObjectID identity mixin for items stored in Mongo.
package mdbid

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identifier provides an interface to items that use the primitive Mongo ObjectID.
type Identifier interface {
	ID() primitive.ObjectID
	IDFilter() bson.D
	SetID(id interface{}) error
}

var _ Identifier = &Identity{}

// Identity instantiates the Identifier interface.
// Embed it with `bson:",inline"` so the ObjectID is stored as _id.
type Identity struct {
	OID primitive.ObjectID `bson:"_id,omitempty"`
}

// ID returns the primitive Mongo ObjectID for an item.
func (idm *Identity) ID() primitive.ObjectID {
	return idm.OID
}

// HasID reports whether an ObjectID has been assigned.
func (idm *Identity) HasID() bool {
	return !idm.OID.IsZero()
}

// IDFilter returns a Mongo filter object for the item's ID.
func (idm *Identity) IDFilter() bson.D {
	return bson.D{{Key: "_id", Value: idm.OID}}
}

// SetID records the ID returned from an insert.
func (idm *Identity) SetID(id interface{}) error {
	oid, ok := id.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("id %v is %T not an ObjectID", id, id)
	}
	idm.OID = oid
	return nil
}
