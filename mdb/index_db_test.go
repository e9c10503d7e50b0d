//go:build database

package mdb

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type indexTestSuite struct {
	AccessTestSuite
	collection *Collection
}

func TestIndexSuite(t *testing.T) {
	suite.Run(t, new(indexTestSuite))
}

func (suite *indexTestSuite) SetupTest() {
	suite.collection = suite.ConnectCollection(testCollectionValidation)
}

func (suite *indexTestSuite) TearDownTest() {
	_ = suite.collection.Drop()
}

func (suite *indexTestSuite) TestIndexNone() {
	NewIndexTester().TestIndexes(suite.T(), suite.collection)
}

func (suite *indexTestSuite) TestIndexOne() {
	index1 := NewIndexDescription(true, "titulo")
	suite.Require().NoError(suite.access.Index(suite.collection, index1))
	NewIndexTester().TestIndexes(suite.T(), suite.collection, index1)
}

func (suite *indexTestSuite) TestIndexDescending() {
	index1 := NewIndexDescription(false, "genero", "-año")
	suite.Require().NoError(suite.access.Index(suite.collection, index1))
	NewIndexTester().TestIndexes(suite.T(), suite.collection, index1)
}

func (suite *indexTestSuite) TestIndexTwice() {
	index1 := NewIndexDescription(true, "titulo")
	suite.Require().NoError(suite.access.Index(suite.collection, index1))
	suite.Require().NoError(suite.access.Index(suite.collection, index1))
	NewIndexTester().TestIndexes(suite.T(), suite.collection, index1)
}

func (suite *indexTestSuite) TestIndexNamesDrop() {
	index1 := NewIndexDescription(true, "titulo")
	index2 := NewIndexDescription(false, "año")
	suite.Require().NoError(suite.access.Index(suite.collection, index1))
	suite.Require().NoError(suite.access.Index(suite.collection, index2))
	names, err := suite.access.IndexNames(suite.collection)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"_id_", "titulo_1", "año_1"}, names)

	suite.Require().NoError(suite.access.DropIndex(suite.collection, index2))
	NewIndexTester().TestIndexes(suite.T(), suite.collection, index1)
	suite.Error(suite.access.DropIndex(suite.collection, index2))
}

func (suite *indexTestSuite) TestIndexFinisher() {
	index := NewIndexDescription(true, "titulo", "año")
	collection, err := ConnectCollection(suite.access,
		&CollectionDefinition{
			Name:           "test-collection-index-finisher",
			ValidationJSON: SimpleValidatorJSON,
			Finishers: []CollectionFinisher{
				index.Finisher(),
			},
		})
	suite.Require().NoError(err)
	suite.NotNil(collection)
	NewIndexTester().TestIndexes(suite.T(), collection, index)
}
