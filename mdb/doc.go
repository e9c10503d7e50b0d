// Package mdb provides infrastructure for using Mongo from Go.
// This package uses the hclog logging package.
//
// The Access struct contains the current Mongo client and database objects.
// It is returned from the Connect() function which also pings the database.
// Visible variables can be used to change default configuration and timeouts.
// The Access object provides a Disconnect() method suitable for use with defer,
// only the first call actually releases the client.
//
// WithSession() connects to a Target, runs a function with the Access object
// and always disconnects afterwards, even if the function fails or panics.
// Errors from the function are returned as is, never replaced by disconnect errors.
// A Target may be loaded from MONGO_* environment variables with TargetFromEnv().
//
// In addition, the Access object can be used to construct collections.
// The Collection() call takes a collection name, an optional validation JSON string,
// and optional list of "finisher" functions intended to create indices
// or otherwise configure the collection after it is created.
//
// Finds and aggregations return Results, a lazy sequence that can only be walked once.
// Aggregation pipelines are built with the mdbpipe package.
//
// The AccessTestSuite struct is provided to wrap database connect/disconnect
// for use in tests that actually hit the database.
// The use of 'go:build database' separates these so that they are only run
// when using 'go test -tags database', without this tag only unit tests are run.
package mdb
