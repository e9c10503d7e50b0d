// Package mdbpipe builds Mongo aggregation pipelines.
//
// A Pipeline is an ordered list of stages, each a single element document
// mapping the stage name ($match, $group, $sort, ...) to its parameters.
// Stages may be added with the builder methods or loaded from
// extended JSON or YAML files.
// Nothing is validated locally, the database is the judge of stage semantics.
// Pipelines are submitted with mdb.Collection.Aggregate().
package mdbpipe
