//go:build database

package mdb

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-mongo-guide/mdbpipe"
)

type aggregateTestSuite struct {
	AccessTestSuite
	collection *Collection
}

func TestAggregateSuite(t *testing.T) {
	suite.Run(t, new(aggregateTestSuite))
}

func (suite *aggregateTestSuite) SetupSuite() {
	suite.AccessTestSuite.SetupSuite()
	suite.collection = suite.ConnectCollection(testCollection)
	for _, item := range simpleItems() {
		_, err := suite.collection.Create(item)
		suite.Require().NoError(err)
	}
}

func (suite *aggregateTestSuite) TestZeroStages() {
	results, err := suite.collection.Aggregate(mdbpipe.New())
	suite.Require().NoError(err)
	docs, err := results.All()
	suite.Require().NoError(err)
	suite.Len(docs, len(simpleItems()))

	results, err = suite.collection.Aggregate(nil)
	suite.Require().NoError(err)
	docs, err = results.All()
	suite.Require().NoError(err)
	suite.Len(docs, len(simpleItems()))
}

func (suite *aggregateTestSuite) TestNotRestartable() {
	results, err := suite.collection.Aggregate(mdbpipe.New())
	suite.Require().NoError(err)
	count := 0
	for results.Next() {
		count++
	}
	suite.Require().NoError(results.Err())
	suite.Equal(len(simpleItems()), count)
	suite.False(results.Next())
	docs, err := results.All()
	suite.Require().NoError(err)
	suite.Empty(docs)
}

func (suite *aggregateTestSuite) TestMatchGroup() {
	pipeline := mdbpipe.New().
		Match(bson.D{{Key: "año", Value: bson.D{{Key: "$lt", Value: 2000}}}}).
		Group("$genero", bson.D{{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}})
	results, err := suite.collection.Aggregate(pipeline)
	suite.Require().NoError(err)
	docs, err := results.All()
	suite.Require().NoError(err)

	expected := make(map[string]int)
	for _, item := range simpleItems() {
		if item.Year < 2000 {
			expected[item.Genre]++
		}
	}
	suite.Require().Len(docs, len(expected))
	for _, doc := range docs {
		genre, ok := doc["_id"].(string)
		suite.Require().True(ok)
		suite.EqualValues(expected[genre], doc["count"], "count for %s", genre)
	}
}

func (suite *aggregateTestSuite) TestSortLimitProject() {
	pipeline := mdbpipe.New().
		Sort(bson.D{{Key: "año", Value: 1}}).
		Project(bson.D{{Key: "_id", Value: 0}, {Key: "titulo", Value: 1}}).
		Limit(3)
	results, err := suite.collection.Aggregate(pipeline)
	suite.Require().NoError(err)
	docs, err := results.All()
	suite.Require().NoError(err)
	suite.Equal([]bson.M{
		{"titulo": "El árbol de la ciencia"},
		{"titulo": "Diario de un poeta recién casado"},
		{"titulo": "Nada"},
	}, docs)
}

func (suite *aggregateTestSuite) TestAddFieldsCount() {
	pipeline := mdbpipe.New().
		AddFields(bson.D{{Key: "siglo", Value: bson.D{{Key: "$ceil", Value: bson.D{
			{Key: "$divide", Value: bson.A{"$año", 100}},
		}}}}}).
		Match(bson.D{{Key: "siglo", Value: 20}}).
		Count("total")
	results, err := suite.collection.Aggregate(pipeline)
	suite.Require().NoError(err)
	docs, err := results.All()
	suite.Require().NoError(err)
	suite.Require().Len(docs, 1)
	suite.EqualValues(3, docs[0]["total"])
}

func (suite *aggregateTestSuite) TestMalformedStage() {
	results, err := suite.collection.Aggregate(mdbpipe.New().Stage("$noSuchStage", bson.D{}))
	if err == nil {
		_, err = results.All()
	}
	suite.Error(err)
}
