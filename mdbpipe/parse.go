package mdbpipe

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotSequence     = errors.New("pipeline is not a sequence")
	ErrStageNotMapping = errors.New("stage is not a mapping")
	ErrUnknownFormat   = errors.New("unknown pipeline file format")
)

// ParseJSON reads a pipeline written as a Mongo extended JSON array of stages.
func ParseJSON(data []byte) (*Pipeline, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotSequence
	}

	// Extended JSON can only be unmarshaled from a document so wrap the array in one.
	wrapped := make([]byte, 0, len(trimmed)+16)
	wrapped = append(wrapped, `{"pipeline":`...)
	wrapped = append(wrapped, trimmed...)
	wrapped = append(wrapped, '}')

	var holder struct {
		Pipeline []bson.D `bson:"pipeline"`
	}
	if err := bson.UnmarshalExtJSON(wrapped, false, &holder); err != nil {
		return nil, fmt.Errorf("unmarshal pipeline JSON: %w", err)
	}

	return New(holder.Pipeline...), nil
}

// ParseYAML reads a pipeline written as a YAML sequence of stage mappings.
// Key order within mappings is kept since it matters for stages like $sort.
func ParseYAML(data []byte) (*Pipeline, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("unmarshal pipeline YAML: %w", err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, ErrNotSequence
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.SequenceNode {
		return nil, ErrNotSequence
	}

	pipeline := New()
	for i, stageNode := range node.Content {
		if stageNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("stage #%d: %w", i, ErrStageNotMapping)
		}
		value, err := fromYAML(stageNode)
		if err != nil {
			return nil, fmt.Errorf("stage #%d: %w", i, err)
		}
		pipeline.stages = append(pipeline.stages, value.(bson.D))
	}

	return pipeline, nil
}

// ParseFile reads a pipeline from a .json, .yaml or .yml file.
func ParseFile(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

func fromYAML(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.MappingNode:
		doc := make(bson.D, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := fromYAML(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			doc = append(doc, bson.E{Key: node.Content[i].Value, Value: value})
		}
		return doc, nil
	case yaml.SequenceNode:
		array := make(bson.A, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := fromYAML(child)
			if err != nil {
				return nil, err
			}
			array = append(array, value)
		}
		return array, nil
	case yaml.AliasNode:
		return fromYAML(node.Alias)
	case yaml.ScalarNode:
		var value interface{}
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode scalar at line %d: %w", node.Line, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unexpected YAML node kind %d at line %d", node.Kind, node.Line)
	}
}
