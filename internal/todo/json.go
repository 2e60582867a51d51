package todo

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaVersion is the version written to JSON task files.
const SchemaVersion = 1

const (
	fileSchemaURL = "https://todolist.local/tasks.schema.json"
	taskSchemaURL = "https://todolist.local/task.schema.json"
)

//go:embed schema/*.json
var schemaFS embed.FS

type jsonFile struct {
	SchemaVersion int               `json:"schema_version"`
	Tasks         []json.RawMessage `json:"tasks"`
}

type jsonOut struct {
	SchemaVersion int    `json:"schema_version"`
	Tasks         []Task `json:"tasks"`
}

type schemas struct {
	file *jsonschema.Schema
	task *jsonschema.Schema
}

var (
	schemaOnce   sync.Once
	schemaCached schemas
	schemaErr    error
)

// loadSchemas compiles the embedded schemas once.
func loadSchemas() (schemas, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		for url, name := range map[string]string{
			fileSchemaURL: "schema/tasks.schema.json",
			taskSchemaURL: "schema/task.schema.json",
		} {
			data, err := schemaFS.ReadFile(name)
			if err != nil {
				schemaErr = fmt.Errorf("read embedded schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
				schemaErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}

		if schemaCached.file, schemaErr = compiler.Compile(fileSchemaURL); schemaErr != nil {
			schemaErr = fmt.Errorf("compile file schema: %w", schemaErr)
			return
		}
		if schemaCached.task, schemaErr = compiler.Compile(taskSchemaURL); schemaErr != nil {
			schemaErr = fmt.Errorf("compile task schema: %w", schemaErr)
		}
	})
	return schemaCached, schemaErr
}

type jsonCodec struct{}

func (jsonCodec) decode(data []byte) ([]Task, []SkippedRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, nil
	}

	s, err := loadSchemas()
	if err != nil {
		return nil, nil, err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse task file: %w", err)
	}
	if err := s.file.Validate(doc); err != nil {
		return nil, nil, fmt.Errorf("invalid task file: %s", schemaMessage(err))
	}

	var f jsonFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse task file: %w", err)
	}

	var tasks []Task
	var skipped []SkippedRecord
	for i, raw := range f.Tasks {
		var obj interface{}
		if err := json.Unmarshal(raw, &obj); err != nil {
			skipped = append(skipped, SkippedRecord{Line: i + 1, Raw: string(raw), Reason: err.Error()})
			continue
		}
		if err := s.task.Validate(obj); err != nil {
			skipped = append(skipped, SkippedRecord{Line: i + 1, Raw: compactJSON(raw), Reason: schemaMessage(err)})
			continue
		}
		var t Task
		if err := json.Unmarshal(raw, &t); err != nil {
			skipped = append(skipped, SkippedRecord{Line: i + 1, Raw: compactJSON(raw), Reason: err.Error()})
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, skipped, nil
}

func (jsonCodec) encode(tasks []Task) ([]byte, error) {
	out := jsonOut{SchemaVersion: SchemaVersion, Tasks: tasks}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task file: %w", err)
	}
	return append(data, '\n'), nil
}

// schemaMessage flattens a schema validation error into one line.
func schemaMessage(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var msgs []string
	collectSchemaMessages(ve, &msgs)
	if len(msgs) == 0 {
		return ve.Message
	}
	return strings.Join(msgs, "; ")
}

func collectSchemaMessages(err *jsonschema.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		loc := jsonPointerToPath(err.InstanceLocation)
		if loc == "" {
			*msgs = append(*msgs, err.Message)
			return
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaMessages(cause, msgs)
	}
}

// jsonPointerToPath converts "/tasks/0/text" to "tasks[0].text".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if isDigits(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func compactJSON(raw []byte) string {
	var b bytes.Buffer
	if err := json.Compact(&b, raw); err != nil {
		return string(raw)
	}
	return b.String()
}
