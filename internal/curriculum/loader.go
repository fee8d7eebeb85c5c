package curriculum

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

//go:embed seed.json
var seedJSON []byte

const schemaURL = "schema://curriculum.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error

	seedOnce  sync.Once
	seedGraph *Graph
)

// compiledSchema compiles the embedded document schema once.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Parse validates raw JSON against the curriculum schema, decodes it and
// builds the graph.
func Parse(data []byte) (*Graph, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}
	return New(doc)
}

// ParseYAML accepts the same document authored as YAML.
func ParseYAML(data []byte) (*Graph, error) {
	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	// Round-trip through JSON so both formats share one schema and decoder.
	b, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("convert YAML: %w", err)
	}
	return Parse(b)
}

// LoadFile reads a curriculum from disk. The format is chosen by extension.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// Default returns the curriculum bundled with the binary.
func Default() *Graph {
	seedOnce.Do(func() {
		g, err := Parse(seedJSON)
		if err != nil {
			panic(fmt.Sprintf("embedded curriculum: %v", err))
		}
		seedGraph = g
	})
	return seedGraph
}
