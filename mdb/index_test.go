package mdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestIndexDescriptionAsBSON(t *testing.T) {
	description := NewIndexDescription(false, "autor", "-año")
	assert.Equal(t, bson.D{{Key: "autor", Value: 1}, {Key: "año", Value: -1}}, description.AsBSON())
	assert.Equal(t, "autor_1_año_-1", description.Name())
	assert.False(t, description.Unique())
}

func TestIndexDescriptionSingle(t *testing.T) {
	description := NewIndexDescription(true, "titulo")
	assert.Equal(t, bson.D{{Key: "titulo", Value: 1}}, description.AsBSON())
	assert.Equal(t, "titulo_1", description.Name())
	assert.True(t, description.Unique())
	assert.NotNil(t, description.Finisher())
}
