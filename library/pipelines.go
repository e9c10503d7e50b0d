package library

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-mongo-guide/mdb"
	"github.com/madkins23/go-mongo-guide/mdbpipe"
)

// AuthorCount is a row of the BooksPerAuthor report.
type AuthorCount struct {
	Author string   `bson:"_id"`
	Books  int      `bson:"libros"`
	Titles []string `bson:"titulos"`
}

// BooksPerAuthor counts books published in or after the year, most prolific author first.
func BooksPerAuthor(since int) *mdbpipe.Pipeline {
	return mdbpipe.New().
		Match(bson.D{{Key: "año", Value: bson.D{{Key: "$gte", Value: since}}}}).
		Group("$autor", bson.D{
			{Key: "libros", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "titulos", Value: bson.D{{Key: "$push", Value: "$titulo"}}},
		}).
		Sort(bson.D{{Key: "libros", Value: -1}, {Key: "_id", Value: 1}})
}

// BookWithAuthor is a row of the BooksWithAuthors report.
type BookWithAuthor struct {
	Title   string `bson:"titulo"`
	Year    int    `bson:"año"`
	Author  string `bson:"autor"`
	Country string `bson:"pais"`
}

// BooksWithAuthors joins each book with its author's country.
// Books without a matching author are dropped by the unwind.
func BooksWithAuthors() *mdbpipe.Pipeline {
	return mdbpipe.New().
		Lookup(AuthorsCollection, "autor", "nombre", "detalle").
		Unwind("detalle").
		Project(bson.D{
			{Key: "_id", Value: 0},
			{Key: "titulo", Value: 1},
			{Key: "año", Value: 1},
			{Key: "autor", Value: 1},
			{Key: "pais", Value: "$detalle.pais"},
		}).
		Sort(ByYear)
}

// DecadeCount is a row of the BooksByDecade report.
type DecadeCount struct {
	Decade int     `bson:"_id"`
	Books  int     `bson:"libros"`
	Pages  float64 `bson:"paginasMedia"`
}

// BooksByDecade computes each book's decade and summarizes per decade in order.
func BooksByDecade() *mdbpipe.Pipeline {
	return mdbpipe.New().
		AddFields(bson.D{{Key: "decada", Value: bson.D{{Key: "$subtract", Value: bson.A{
			"$año", bson.D{{Key: "$mod", Value: bson.A{"$año", 10}}},
		}}}}}).
		Group("$decada", bson.D{
			{Key: "libros", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "paginasMedia", Value: bson.D{{Key: "$avg", Value: "$paginas"}}},
		}).
		Sort(bson.D{{Key: "_id", Value: 1}})
}

// OldestBooks returns the n oldest books.
func OldestBooks(n int64) *mdbpipe.Pipeline {
	return mdbpipe.New().Sort(ByYear).Limit(n)
}

// Report runs a pipeline against the books collection and decodes every row into T.
func Report[T any](books *mdb.Collection, pipeline *mdbpipe.Pipeline) ([]T, error) {
	results, err := books.Aggregate(pipeline)
	if err != nil {
		return nil, err
	}
	defer func() { _ = results.Close() }()

	rows := make([]T, 0)
	for results.Next() {
		var row T
		if err := results.Decode(&row); err != nil {
			return nil, fmt.Errorf("report row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, results.Err()
}
