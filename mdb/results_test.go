package mdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func resultsFrom(t *testing.T, docs ...interface{}) *Results {
	cursor, err := mongo.NewCursorFromDocuments(docs, nil, nil)
	require.NoError(t, err)
	return NewResults(context.Background(), cursor)
}

func testBooks() []interface{} {
	return []interface{}{
		bson.D{{Key: "titulo", Value: "Nada"}, {Key: "año", Value: 1944}},
		bson.D{{Key: "titulo", Value: "Patria"}, {Key: "año", Value: 2016}},
	}
}

func TestResultsNext(t *testing.T) {
	results := resultsFrom(t, testBooks()...)
	titles := make([]string, 0, 2)
	for results.Next() {
		doc, err := results.Document()
		require.NoError(t, err)
		titles = append(titles, doc["titulo"].(string))
	}
	require.NoError(t, results.Err())
	assert.Equal(t, []string{"Nada", "Patria"}, titles)
}

func TestResultsNotRestartable(t *testing.T) {
	results := resultsFrom(t, testBooks()...)
	all, err := results.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.False(t, results.Next())
	again, err := results.All()
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.NoError(t, results.Close())
}

func TestResultsDecode(t *testing.T) {
	results := resultsFrom(t, testBooks()...)
	var book struct {
		Title string `bson:"titulo"`
		Year  int    `bson:"año"`
	}
	assert.Error(t, results.Decode(&book), "no current document")
	require.True(t, results.Next())
	require.NoError(t, results.Decode(&book))
	assert.Equal(t, "Nada", book.Title)
	assert.Equal(t, 1944, book.Year)
	require.NoError(t, results.Close())
	assert.False(t, results.Next())
	assert.Error(t, results.Decode(&book))
}

func TestResultsEmpty(t *testing.T) {
	results := resultsFrom(t)
	assert.False(t, results.Next())
	assert.NoError(t, results.Err())
}

func TestResultsIterateError(t *testing.T) {
	results := resultsFrom(t, testBooks()...)
	stop := errors.New("stop")
	seen := 0
	err := results.Iterate(func(doc bson.M) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
	assert.False(t, results.Next(), "iterate closes the results")
}
