package todo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an on-disk task file encoding.
type Format string

const (
	FormatAuto  Format = ""
	FormatLines Format = "lines"
	FormatJSON  Format = "json"
)

// ParseFormat parses a format name. The empty string and "auto" select
// detection by file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "lines", "line", "text", "txt":
		return FormatLines, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown task file format %q (want lines or json)", s)
}

// DetectFormat resolves FormatAuto from the file extension: .json files use
// the JSON format, everything else uses the line format.
func DetectFormat(path string, f Format) Format {
	if f != FormatAuto {
		return f
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatLines
}

// codec converts between file contents and tasks. Decode returns the tasks
// it could read and the records it dropped; it only fails when the file as a
// whole cannot be interpreted.
type codec interface {
	decode(data []byte) ([]Task, []SkippedRecord, error)
	encode(tasks []Task) ([]byte, error)
}

func codecFor(f Format) codec {
	if f == FormatJSON {
		return jsonCodec{}
	}
	return lineCodec{}
}
