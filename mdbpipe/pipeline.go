package mdbpipe

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Pipeline is an ordered sequence of aggregation stages.
// The output of each stage is the only input of the next one.
type Pipeline struct {
	stages []bson.D
}

// New creates a pipeline from already formed stage documents.
func New(stages ...bson.D) *Pipeline {
	p := &Pipeline{stages: make([]bson.D, 0, len(stages))}
	p.stages = append(p.stages, stages...)
	return p
}

// Stage appends a stage with the specified name and parameters.
// A missing '$' prefix is added to the name.
// Stage parameters are not checked, the database rejects malformed stages.
func (p *Pipeline) Stage(name string, params interface{}) *Pipeline {
	if !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	p.stages = append(p.stages, bson.D{{Key: name, Value: params}})
	return p
}

// Match filters documents, e.g. bson.D{{"año", bson.D{{"$gte", 2000}}}}.
func (p *Pipeline) Match(filter interface{}) *Pipeline {
	return p.Stage("$match", filter)
}

// Group documents by the id expression, computing the accumulator fields.
func (p *Pipeline) Group(id interface{}, fields bson.D) *Pipeline {
	group := bson.D{{Key: "_id", Value: id}}
	group = append(group, fields...)
	return p.Stage("$group", group)
}

// Project reshapes documents.
func (p *Pipeline) Project(fields interface{}) *Pipeline {
	return p.Stage("$project", fields)
}

// Sort documents, key order of fields is significant.
func (p *Pipeline) Sort(fields bson.D) *Pipeline {
	return p.Stage("$sort", fields)
}

// Limit the number of documents passed on.
func (p *Pipeline) Limit(n int64) *Pipeline {
	return p.Stage("$limit", n)
}

// Skip the first n documents.
func (p *Pipeline) Skip(n int64) *Pipeline {
	return p.Stage("$skip", n)
}

// Lookup joins documents from another collection in the same database.
func (p *Pipeline) Lookup(from, localField, foreignField, as string) *Pipeline {
	return p.Stage("$lookup", bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	})
}

// AddFields computes new fields from expressions.
func (p *Pipeline) AddFields(fields bson.D) *Pipeline {
	return p.Stage("$addFields", fields)
}

// Unwind deconstructs an array field into one document per element.
// The path is prefixed with '$' if necessary.
func (p *Pipeline) Unwind(path string) *Pipeline {
	if !strings.HasPrefix(path, "$") {
		path = "$" + path
	}
	return p.Stage("$unwind", path)
}

// Count replaces the documents with a single document holding their count.
func (p *Pipeline) Count(field string) *Pipeline {
	return p.Stage("$count", field)
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.stages))
	for _, stage := range p.stages {
		if len(stage) > 0 {
			names = append(names, stage[0].Key)
		} else {
			names = append(names, "")
		}
	}
	return names
}

// Stages returns a copy of the stages suitable for submission to the driver.
// An empty pipeline returns an empty, non-nil slice.
func (p *Pipeline) Stages() mongo.Pipeline {
	stages := make(mongo.Pipeline, len(p.stages))
	copy(stages, p.stages)
	return stages
}

// Append the stages of other pipelines to this one.
func (p *Pipeline) Append(others ...*Pipeline) *Pipeline {
	for _, other := range others {
		if other != nil {
			p.stages = append(p.stages, other.stages...)
		}
	}
	return p
}

// String returns the pipeline as relaxed extended JSON.
func (p *Pipeline) String() string {
	parts := make([]string, 0, len(p.stages))
	for _, stage := range p.stages {
		data, err := bson.MarshalExtJSON(stage, false, false)
		if err != nil {
			parts = append(parts, fmt.Sprintf("<%s>", err))
			continue
		}
		parts = append(parts, string(data))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
