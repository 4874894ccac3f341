package freegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/flute/compiler/gen"
)

// ResourceError reports a resource that could not be read or parsed.
type ResourceError struct {
	Request string
	File    string
	Cause   error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	return fmt.Sprintf("flute: free-gen request %s: resource %s: %v", e.Request, e.File, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ResourceError) Unwrap() error {
	return e.Cause
}

// prepare reads the request's resource into its result map and applies
// the reflectors.
func prepare(baseDir string, req *Request) error {
	file := req.Resource.File
	if !filepath.IsAbs(file) && baseDir != "" {
		file = filepath.Join(baseDir, file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return &ResourceError{Request: req.Name, File: file, Cause: err}
	}
	text, err := gen.DecodeText(req.Resource.Encoding, data)
	if err != nil {
		return &ResourceError{Request: req.Name, File: file, Cause: err}
	}
	req.ResultMap, req.keys = nil, nil
	switch ResourceType(strings.ToUpper(string(req.Resource.Type))) {
	case ResourceYAML:
		err = readYAML(text, req)
	case ResourceJSON:
		err = readJSON(text, req)
	case ResourceProp:
		err = readProperties(text, req)
	default:
		err = fmt.Errorf("unknown resource type %q", req.Resource.Type)
	}
	if err != nil {
		return &ResourceError{Request: req.Name, File: file, Cause: err}
	}
	return applyReflectors(req)
}

// readYAML flattens a YAML document: nested mappings become dotted keys
// and sequence items are indexed, "columns.0.name".
func readYAML(text string, req *Request) error {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	return flattenNode("", doc.Content[0], req)
}

func flattenNode(prefix string, n *yaml.Node, req *Request) error {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := flattenNode(joinKey(prefix, n.Content[i].Value), n.Content[i+1], req); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			if err := flattenNode(joinKey(prefix, strconv.Itoa(i)), c, req); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if prefix == "" {
			return errors.New("top level must be a mapping")
		}
		if n.Tag == "!!null" {
			req.set(prefix, "")
			return nil
		}
		req.set(prefix, n.Value)
	case yaml.AliasNode:
		return flattenNode(prefix, n.Alias, req)
	}
	return nil
}

// readJSON flattens a JSON document the same way as readYAML, keeping
// the key order of the file.
func readJSON(text string, req *Request) error {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("top level must be an object")
	}
	if err := flattenObject("", dec, req); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after top level object")
	}
	return nil
}

func flattenObject(prefix string, dec *json.Decoder, req *Request) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if err := flattenValue(joinKey(prefix, key), dec, req); err != nil {
			return err
		}
	}
	_, err := dec.Token()
	return err
}

func flattenValue(key string, dec *json.Decoder, req *Request) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			return flattenObject(key, dec, req)
		}
		for i := 0; dec.More(); i++ {
			if err := flattenValue(joinKey(key, strconv.Itoa(i)), dec, req); err != nil {
				return err
			}
		}
		_, err := dec.Token()
		return err
	case nil:
		req.set(key, "")
	case string:
		req.set(key, v)
	default:
		req.set(key, fmt.Sprint(v))
	}
	return nil
}

// readProperties reads a Java properties file in key order.
func readProperties(text string, req *Request) error {
	p, err := gen.ParseProperties(text)
	if err != nil {
		return err
	}
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		req.set(k, v)
	}
	return nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
