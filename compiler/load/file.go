package load

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File reads a schema model from a YAML, JSON or msgpack snapshot file,
// chosen by extension, and links it.
func File(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewSchemaError("", "", "read "+path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return YAML(data)
	case ".json":
		return JSON(data)
	case ".msgpack", ".mpk":
		return ReadSnapshot(bytes.NewReader(data))
	default:
		return nil, NewSchemaError("", "", "unsupported schema file extension "+ext, nil)
	}
}

// YAML decodes and links a schema model written in YAML.
func YAML(data []byte) (*Database, error) {
	db := &Database{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(db); err != nil {
		return nil, NewSchemaError("", "", "decode yaml", err)
	}
	return db, db.Link()
}

// JSON decodes and links a schema model written in JSON.
func JSON(data []byte) (*Database, error) {
	db := &Database{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(db); err != nil {
		return nil, NewSchemaError("", "", "decode json", err)
	}
	return db, db.Link()
}
