package mdb

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-mongo-guide/mdbid"
)

var SimpleValidatorJSON = `{
	"$jsonSchema": {
		"bsonType": "object",
		"required": ["titulo", "año"],
		"properties": {
			"titulo": {
				"bsonType": "string"
			},
			"año": {
				"bsonType": "int"
			}
		}
	}
}`

var (
	testCollection = &CollectionDefinition{
		Name: "test-collection",
	}
	testCollectionValidation = &CollectionDefinition{
		Name:           "test-collection-validation",
		ValidationJSON: SimpleValidatorJSON,
	}
)

////////////////////////////////////////////////////////////////////////////////

var _ mdbid.Identifier = &SimpleItem{}

type SimpleItem struct {
	mdbid.Identity `bson:",inline"`
	Title          string `bson:"titulo"`
	Year           int    `bson:"año"`
	Genre          string `bson:"genero,omitempty"`
}

// Filter returns a filter for the title of this item.
func (si *SimpleItem) Filter() bson.D {
	return bson.D{{Key: "titulo", Value: si.Title}}
}

////////////////////////////////////////////////////////////////////////////////

func simpleItems() []*SimpleItem {
	return []*SimpleItem{
		{Title: "Patria", Year: 2016, Genre: "novela"},
		{Title: "Nada", Year: 1944, Genre: "novela"},
		{Title: "Los girasoles ciegos", Year: 2004, Genre: "relatos"},
		{Title: "El árbol de la ciencia", Year: 1911, Genre: "novela"},
		{Title: "Diario de un poeta recién casado", Year: 1917, Genre: "poesía"},
	}
}

// SimplyInvalid is missing año which is required by the JSON validation above.
var SimplyInvalid = bson.D{{Key: "titulo", Value: "Invalid"}}
