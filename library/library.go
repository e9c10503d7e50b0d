// Package library holds the worked example used throughout the guide:
// a small catalog of books (libros) and their authors (autores).
//
// Field names are stored in Spanish, the Go types are a conventional view
// of documents the database keeps schema-less.
package library

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-mongo-guide/mdb"
	"github.com/madkins23/go-mongo-guide/mdbid"
)

const (
	BooksCollection   = "libros"
	AuthorsCollection = "autores"
)

// Book is a single entry of the libros collection.
type Book struct {
	mdbid.Identity `bson:",inline"`
	Title          string   `bson:"titulo"`
	Author         string   `bson:"autor,omitempty"`
	Year           int      `bson:"año"`
	Genres         []string `bson:"generos,omitempty"`
	Pages          int      `bson:"paginas,omitempty"`
}

// Filter returns an exact match filter on the title.
func (b *Book) Filter() bson.D {
	return TitleFilter(b.Title)
}

func (b *Book) String() string {
	return fmt.Sprintf("%s (%s, %d)", b.Title, b.Author, b.Year)
}

// Author is a single entry of the autores collection.
type Author struct {
	mdbid.Identity `bson:",inline"`
	Name           string `bson:"nombre"`
	Country        string `bson:"pais"`
	Born           int    `bson:"nacimiento,omitempty"`
}

// TitleFilter matches a book by exact title.
func TitleFilter(title string) bson.D {
	return bson.D{{Key: "titulo", Value: title}}
}

// ByYear sorts books by year ascending, then title.
var ByYear = bson.D{{Key: "año", Value: 1}, {Key: "titulo", Value: 1}}

var BookValidatorJSON = `{
	"$jsonSchema": {
		"bsonType": "object",
		"required": ["titulo", "año"],
		"properties": {
			"titulo": {
				"bsonType": "string"
			},
			"autor": {
				"bsonType": "string"
			},
			"año": {
				"bsonType": "int",
				"minimum": 1000
			},
			"generos": {
				"bsonType": "array",
				"items": {"bsonType": "string"}
			},
			"paginas": {
				"bsonType": "int",
				"minimum": 1
			}
		}
	}
}`

var (
	// TitleIndex keeps titles unique.
	TitleIndex = mdb.NewIndexDescription(true, "titulo")

	// AuthorYearIndex serves listings of an author's books, newest first.
	AuthorYearIndex = mdb.NewIndexDescription(false, "autor", "-año")

	// AuthorNameIndex serves the $lookup from books to authors.
	AuthorNameIndex = mdb.NewIndexDescription(true, "nombre")
)

// BooksDefinition describes the libros collection with its validator and indexes.
func BooksDefinition() *mdb.CollectionDefinition {
	return &mdb.CollectionDefinition{
		Name:           BooksCollection,
		ValidationJSON: BookValidatorJSON,
		Finishers: []mdb.CollectionFinisher{
			TitleIndex.Finisher(),
			AuthorYearIndex.Finisher(),
		},
	}
}

// AuthorsDefinition describes the autores collection.
func AuthorsDefinition() *mdb.CollectionDefinition {
	return &mdb.CollectionDefinition{
		Name: AuthorsCollection,
		Finishers: []mdb.CollectionFinisher{
			AuthorNameIndex.Finisher(),
		},
	}
}

// Catalog groups the collections of the example.
type Catalog struct {
	Books   *mdb.TypedCollection[Book]
	Authors *mdb.TypedCollection[Author]
}

// Open acquires the example collections, creating them with indexes if necessary.
func Open(access *mdb.Access) (*Catalog, error) {
	books, err := mdb.ConnectTypedCollection[Book](access, BooksDefinition())
	if err != nil {
		return nil, fmt.Errorf("books collection: %w", err)
	}
	authors, err := mdb.ConnectTypedCollection[Author](access, AuthorsDefinition())
	if err != nil {
		return nil, fmt.Errorf("authors collection: %w", err)
	}
	return &Catalog{Books: books, Authors: authors}, nil
}

// Seed replaces the contents of the example collections with the sample data.
// Returns the number of books and authors inserted.
func (c *Catalog) Seed() (int, int, error) {
	if err := c.Books.DeleteAll(); err != nil {
		return 0, 0, fmt.Errorf("clear books: %w", err)
	}
	if err := c.Authors.DeleteAll(); err != nil {
		return 0, 0, fmt.Errorf("clear authors: %w", err)
	}

	books := SampleBooks()
	bookItems := make([]interface{}, 0, len(books))
	for _, book := range books {
		bookItems = append(bookItems, book)
	}
	bookIDs, err := c.Books.CreateMany(bookItems...)
	if err != nil {
		return 0, 0, fmt.Errorf("insert books: %w", err)
	}

	authors := SampleAuthors()
	authorItems := make([]interface{}, 0, len(authors))
	for _, author := range authors {
		authorItems = append(authorItems, author)
	}
	authorIDs, err := c.Authors.CreateMany(authorItems...)
	if err != nil {
		return 0, 0, fmt.Errorf("insert authors: %w", err)
	}

	return len(bookIDs), len(authorIDs), nil
}

// AddBook inserts a book, recording the ID assigned to it.
func (c *Catalog) AddBook(book *Book) error {
	id, err := c.Books.Create(book)
	if err != nil {
		return err
	}
	return book.SetID(id)
}

// BooksByYear returns all books sorted by year ascending.
func (c *Catalog) BooksByYear() ([]*Book, error) {
	return c.Books.All(nil, &mdb.Query{Sort: ByYear})
}

// RemoveBook deletes a book by exact title.
// Removing a title that is not there returns zero and no error.
func (c *Catalog) RemoveBook(title string) (int64, error) {
	return c.Books.Delete(TitleFilter(title))
}
