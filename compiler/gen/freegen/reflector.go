package freegen

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/syssam/flute/compiler/gen"
)

var (
	// ErrReferenceNotFound is matched by every ReferenceNotFoundError.
	ErrReferenceNotFound = errors.New("flute: reference value not found")
	// ErrReferenceCycle is returned when reflectors reference each other
	// in a loop.
	ErrReferenceCycle = errors.New("flute: reflector reference cycle")
)

// ReferenceNotFoundError reports a reflector whose referenced key is
// absent or empty.
type ReferenceNotFoundError struct {
	Request string
	Key     string
	RefKey  string
}

// Error implements the error interface.
func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("flute: reference value not found in request %s: key %s refers to %s, which is undefined or empty",
		e.Request, e.Key, e.RefKey)
}

// Is reports whether the target matches ErrReferenceNotFound.
func (e *ReferenceNotFoundError) Is(target error) bool {
	return target == ErrReferenceNotFound
}

// transforms are the value transformations reflector markers can name.
var transforms = map[string]func(string) string{
	"camelize":     gen.Camelize,
	"capCamel":     gen.CapCamel,
	"uncapCamel":   gen.UncapCamel,
	"capitalize":   gen.Capitalize,
	"uncapitalize": gen.Uncapitalize,
}

var markerRe = regexp.MustCompile(`^df:(camelize|capCamel|uncapCamel|capitalize|uncapitalize)\(\s*([^()\s]+)\s*\)$`)

// reflector is a deferred transformation of one value. It is collected
// while the resource is read and applied once the whole map exists.
type reflector struct {
	key       string
	refKey    string
	transform func(string) string
}

func parseMarker(key, value string) (reflector, bool) {
	m := markerRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return reflector{}, false
	}
	return reflector{key: key, refKey: m[2], transform: transforms[m[1]]}, true
}

// applyReflectors resolves every marker value of the request. A reflector
// may refer to a key defined later in the resource or to another
// reflector; the outcome does not depend on key order.
func applyReflectors(req *Request) error {
	pending := make(map[string]reflector)
	var order []string
	for _, k := range req.keys {
		if rf, ok := parseMarker(k, req.ResultMap[k]); ok {
			pending[k] = rf
			order = append(order, k)
		}
	}
	resolving := make(map[string]bool)
	var resolve func(key string) (string, error)
	resolve = func(key string) (string, error) {
		rf, ok := pending[key]
		if !ok {
			return req.ResultMap[key], nil
		}
		if resolving[key] {
			return "", fmt.Errorf("%w in request %s at key %s", ErrReferenceCycle, req.Name, key)
		}
		resolving[key] = true
		ref, err := resolve(rf.refKey)
		if err != nil {
			return "", err
		}
		if ref == "" {
			return "", &ReferenceNotFoundError{Request: req.Name, Key: rf.key, RefKey: rf.refKey}
		}
		v := rf.transform(ref)
		req.ResultMap[key] = v
		delete(pending, key)
		return v, nil
	}
	for _, k := range order {
		if _, err := resolve(k); err != nil {
			return err
		}
	}
	return nil
}
