package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Dan7h3x/LazyDo/internal/task"
	"github.com/Dan7h3x/LazyDo/internal/utils"
)

// DocumentVersion is the wire format version this build writes.
const DocumentVersion = 1

//go:embed schema.json
var schemaJSON string

// document is the read-side shape of the task file. Tasks stay raw so the
// task package can decode each node in isolation.
type document struct {
	Version      int               `json:"version"`
	LastModified time.Time         `json:"last_modified"`
	Tasks        []json.RawMessage `json:"tasks"`
}

// encodeDocument wraps the task forest in the versioned envelope and
// renders it with 2-space indentation and a trailing newline.
func encodeDocument(tasks []*task.Task, now time.Time) ([]byte, error) {
	doc := struct {
		Version      int          `json:"version"`
		LastModified time.Time    `json:"last_modified"`
		Tasks        []*task.Task `json:"tasks"`
	}{
		Version:      DocumentVersion,
		LastModified: now.UTC(),
		Tasks:        tasks,
	}
	if doc.Tasks == nil {
		doc.Tasks = []*task.Task{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task file: %w", err)
	}
	data = append(data, '\n')
	return data, nil
}

// decodeDocument parses the plaintext task file. A bare top-level array
// (the pre-envelope format) is accepted and treated as current-version.
// Versions newer than this build understands are corrupt as far as the
// fallback chain is concerned.
func decodeDocument(data []byte) (*document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrCorrupt)
	}

	if trimmed[0] == '[' {
		var tasks []json.RawMessage
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, fmt.Errorf("parse task file: %w", err)
		}
		return &document{Version: DocumentVersion, Tasks: tasks}, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	if doc.Version > DocumentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, doc.Version)
	}
	return &doc, nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource("tasks.schema.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("tasks.schema.json")
	})
	return compiledSchema, schemaErr
}

// validateDocument checks the plaintext file against the embedded schema.
// Violations come back as warning strings with dotted paths; trouble with
// the schema itself disables the check rather than failing the load.
func validateDocument(data []byte) []string {
	schema, err := loadSchema()
	if err != nil {
		return []string{fmt.Sprintf("schema unavailable: %v", err)}
	}

	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return []string{fmt.Sprintf("cannot validate: %v", err)}
	}

	err = schema.Validate(obj)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}
	var warnings []string
	collectSchemaWarnings(&warnings, ve)
	return warnings
}

func collectSchemaWarnings(out *[]string, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		path := utils.JSONPointerToPath(err.InstanceLocation)
		if path == "" {
			*out = append(*out, err.Message)
		} else {
			*out = append(*out, fmt.Sprintf("%s: %s", path, err.Message))
		}
		return
	}
	for _, cause := range err.Causes {
		collectSchemaWarnings(out, cause)
	}
}
