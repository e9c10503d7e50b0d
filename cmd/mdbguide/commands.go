package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-mongo-guide/library"
	"github.com/madkins23/go-mongo-guide/mdb"
	"github.com/madkins23/go-mongo-guide/mdbpipe"
)

// guide carries what the subcommands share.
type guide struct {
	flags  *rootFlags
	logger hclog.Logger
}

type catalogFn func(access *mdb.Access, catalog *library.Catalog) error

// withCatalog opens a session, acquires the example collections and runs fn.
func (g *guide) withCatalog(cmd *cobra.Command, fn catalogFn) error {
	target, err := g.flags.target()
	if err != nil {
		return err
	}
	logger := g.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return mdb.WithSession(cmd.Context(), target, &mdb.Config{Logger: logger},
		func(access *mdb.Access) error {
			catalog, err := library.Open(access)
			if err != nil {
				return err
			}
			return fn(access, catalog)
		})
}

func (g *guide) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Connect to the database and disconnect again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := g.flags.target()
			if err != nil {
				return err
			}
			return mdb.WithSession(cmd.Context(), target, &mdb.Config{Logger: g.logger},
				func(access *mdb.Access) error {
					fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n", target.Redacted())
					return nil
				})
		},
	}
}

func (g *guide) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the libros and autores collections with the sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withCatalog(cmd, func(_ *mdb.Access, catalog *library.Catalog) error {
				books, authors, err := catalog.Seed()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d books and %d authors\n", books, authors)
				return nil
			})
		},
	}
}

func (g *guide) listCmd() *cobra.Command {
	var sortBy string
	var descending bool
	var limit int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books",
		Long: heredoc.Doc(`
			List books sorted by a field, by default año ascending.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			direction := 1
			if descending {
				direction = -1
			}
			query := &mdb.Query{
				Sort:  bson.D{{Key: sortBy, Value: direction}},
				Limit: limit,
			}
			return g.withCatalog(cmd, func(_ *mdb.Access, catalog *library.Catalog) error {
				return catalog.Books.Iterate(nil, query, func(book *library.Book) error {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), book.String())
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "año", "field to sort by")
	cmd.Flags().BoolVar(&descending, "desc", false, "sort descending")
	cmd.Flags().Int64Var(&limit, "limit", 0, "maximum number of books, 0 for all")
	return cmd
}

func (g *guide) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <titulo>",
		Short: "Show a book by exact title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withCatalog(cmd, func(_ *mdb.Access, catalog *library.Catalog) error {
				doc, err := catalog.Books.Collection.Find(library.TitleFilter(args[0]))
				if err != nil {
					return err
				}
				return writeDocument(cmd.OutOrStdout(), doc)
			})
		},
	}
}

func (g *guide) updateCmd() *cobra.Command {
	var pages int
	var genres []string

	cmd := &cobra.Command{
		Use:   "update <titulo>",
		Short: "Set the page count or genres of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := bson.D{}
			if cmd.Flags().Changed("pages") {
				set = append(set, bson.E{Key: "paginas", Value: pages})
			}
			if cmd.Flags().Changed("genre") {
				set = append(set, bson.E{Key: "generos", Value: genres})
			}
			if len(set) == 0 {
				return fmt.Errorf("nothing to update, use --pages or --genre")
			}
			return g.withCatalog(cmd, func(_ *mdb.Access, catalog *library.Catalog) error {
				if err := catalog.Books.Update(library.TitleFilter(args[0]), bson.D{{Key: "$set", Value: set}}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 0, "number of pages")
	cmd.Flags().StringArrayVar(&genres, "genre", nil, "genre, may be repeated")
	return cmd
}

func (g *guide) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <titulo>",
		Short: "Delete a book by exact title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withCatalog(cmd, func(_ *mdb.Access, catalog *library.Catalog) error {
				deleted, err := catalog.RemoveBook(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", deleted)
				return nil
			})
		},
	}
}

func (g *guide) indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "List the indexes of the libros and autores collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withCatalog(cmd, func(access *mdb.Access, catalog *library.Catalog) error {
				for _, collection := range []*mdb.Collection{&catalog.Books.Collection, &catalog.Authors.Collection} {
					names, err := access.IndexNames(collection)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", collection.Name(), strings.Join(names, ", "))
				}
				return nil
			})
		},
	}
}

func (g *guide) aggregateCmd() *cobra.Command {
	var file string
	var collectionName string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Run a pipeline read from a JSON or YAML file",
		Long: heredoc.Doc(`
			Run an aggregation pipeline read from a file.
			Files ending in .json hold an extended JSON array of stages,
			files ending in .yaml or .yml a sequence of stage mappings.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := mdbpipe.ParseFile(file)
			if err != nil {
				return err
			}
			return g.withCatalog(cmd, func(access *mdb.Access, _ *library.Catalog) error {
				collection, err := access.Collection(cmd.Context(), collectionName, "")
				if err != nil {
					return err
				}
				results, err := collection.Aggregate(pipeline)
				if err != nil {
					return err
				}
				return results.Iterate(func(doc bson.M) error {
					return writeDocument(cmd.OutOrStdout(), doc)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "pipeline file")
	cmd.Flags().StringVarP(&collectionName, "collection", "c", library.BooksCollection, "collection to aggregate")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// reports maps report names to the canned pipelines of the library package.
var reports = map[string]func(since int, limit int64) *mdbpipe.Pipeline{
	"per-author": func(since int, _ int64) *mdbpipe.Pipeline {
		return library.BooksPerAuthor(since)
	},
	"with-authors": func(int, int64) *mdbpipe.Pipeline {
		return library.BooksWithAuthors()
	},
	"by-decade": func(int, int64) *mdbpipe.Pipeline {
		return library.BooksByDecade()
	},
	"oldest": func(_ int, limit int64) *mdbpipe.Pipeline {
		return library.OldestBooks(limit)
	},
}

func reportNames() []string {
	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *guide) reportCmd() *cobra.Command {
	var since int
	var limit int64
	var show bool

	cmd := &cobra.Command{
		Use:       "report <" + strings.Join(reportNames(), "|") + ">",
		Short:     "Run one of the canned aggregation pipelines",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: reportNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline := reports[args[0]](since, limit)
			if show {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), pipeline.String())
				return err
			}
			return g.withCatalog(cmd, func(_ *mdb.Access, catalog *library.Catalog) error {
				results, err := catalog.Books.Aggregate(pipeline)
				if err != nil {
					return err
				}
				return results.Iterate(func(doc bson.M) error {
					return writeDocument(cmd.OutOrStdout(), doc)
				})
			})
		},
	}

	cmd.Flags().IntVar(&since, "since", 1950, "first year counted by per-author")
	cmd.Flags().Int64Var(&limit, "limit", 3, "number of books shown by oldest")
	cmd.Flags().BoolVar(&show, "show", false, "print the pipeline instead of running it")
	return cmd
}

// writeDocument prints a document as a line of relaxed extended JSON.
func writeDocument(w io.Writer, doc interface{}) error {
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return fmt.Errorf("format document: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
