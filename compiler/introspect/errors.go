package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNoProperty is returned when a type has no property of the name.
	ErrNoProperty = errors.New("flute: property not found")
	// ErrNotReadable is returned when a property has neither getter nor field.
	ErrNotReadable = errors.New("flute: property not readable")
	// ErrNotWritable is returned when a property has neither setter nor
	// settable field.
	ErrNotWritable = errors.New("flute: property not writable")
	// ErrNoCoercion is returned when a value cannot be converted to the
	// property type.
	ErrNoCoercion = errors.New("flute: value not convertible")
	// ErrNilObject is returned for nil objects and nil pointers.
	ErrNilObject = errors.New("flute: nil object")
)

// PropertyError reports a failed property access with everything known
// about the property involved.
type PropertyError struct {
	Type         reflect.Type
	Property     string
	PropertyType reflect.Type
	ReadMethod   string
	WriteMethod  string
	HasField     bool
	Op           string // "read" or "write"
	Cause        error
}

// Error implements the error interface.
func (e *PropertyError) Error() string {
	var b strings.Builder
	b.WriteString("flute: cannot ")
	b.WriteString(e.Op)
	b.WriteString(" property ")
	b.WriteString(e.Property)
	if e.Type != nil {
		b.WriteString(" of ")
		b.WriteString(e.Type.String())
	}
	fmt.Fprintf(&b, " (type %s, read method %s, write method %s, field %t)",
		typeName(e.PropertyType), orNone(e.ReadMethod), orNone(e.WriteMethod), e.HasField)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *PropertyError) Unwrap() error {
	return e.Cause
}

func newPropertyError(t reflect.Type, name string, p *Property, op string, cause error) *PropertyError {
	err := &PropertyError{Type: t, Property: name, Op: op, Cause: cause}
	if p != nil {
		err.PropertyType = p.Type
		err.ReadMethod = p.ReadMethod
		err.WriteMethod = p.WriteMethod
		err.HasField = p.field != nil
	}
	return err
}

// IsPropertyError reports whether err is a PropertyError.
func IsPropertyError(err error) bool {
	var e *PropertyError
	return errors.As(err, &e)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	return t.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
